package report

import (
	"context"
	"os/exec"
	"runtime"

	"github.com/matzehuels/splitgraph/pkg/errors"
)

// Opener runs the platform's default-open action for a file.
type Opener func(ctx context.Context, path string) error

// Open opens path with the operating system's default application. Failures
// carry [errors.ErrCodeOpenAction].
func Open(ctx context.Context, path string) error {
	name, args := openCommand(runtime.GOOS, path)
	if out, err := exec.CommandContext(ctx, name, args...).CombinedOutput(); err != nil {
		return errors.Wrap(errors.ErrCodeOpenAction, err, "open %s: %s", path, out)
	}
	return nil
}

func openCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	}
	return "xdg-open", []string{path}
}
