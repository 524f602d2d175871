package pipeline

import (
	"os"

	"github.com/matzehuels/splitgraph/pkg/build"
	"github.com/matzehuels/splitgraph/pkg/build/webpack"
	"github.com/matzehuels/splitgraph/pkg/errors"
	"github.com/matzehuels/splitgraph/pkg/extract"
)

// LoadBuild reads a build from a webpack stats file or a native snapshot.
func LoadBuild(path string) (*build.Build, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	b, err := ReadBuild(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	return b, nil
}

// ReadBuild decodes a build, detecting its format from the top-level keys.
func ReadBuild(data []byte) (*build.Build, error) {
	switch build.Detect(data) {
	case build.FormatSnapshot:
		b, err := build.Decode(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot")
		}
		return b, nil
	case build.FormatWebpackStats:
		s, err := webpack.Parse(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode stats")
		}
		return webpack.Convert(s)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "input is neither webpack stats nor a build snapshot")
}

// Summary is the headline of a build: what ships to users.
type Summary struct {
	Name       string
	TotalSize  int64
	AssetCount int
	ChunkCount int
}

// Summarize counts the production assets and chunks of b.
func Summarize(b *build.Build) Summary {
	assets := extract.ProductionAssets(b.Assets)
	return Summary{
		Name:       b.Name,
		TotalSize:  assets.TotalSize(),
		AssetCount: assets.Len(),
		ChunkCount: b.ChunkCount(),
	}
}
