package report

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/matzehuels/splitgraph/pkg/errors"
)

// Write stores data at every path in order. Each file is written to a
// temporary sibling and renamed into place, so readers never observe a
// partial report. The first failure stops the sequence.
func Write(ctx context.Context, data []byte, paths ...string) error {
	if len(paths) == 0 {
		return errors.New(errors.ErrCodeArtifactWrite, "no output path")
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeFile(path, data); err != nil {
			return errors.Wrap(errors.ErrCodeArtifactWrite, err, "write %s", path)
		}
	}
	return nil
}

// writeTemp writes the temporary sibling. Tests replace it to fail mid-write.
var writeTemp = os.WriteFile

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := writeTemp(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
