package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/fsagent/internal/sandbox"
)

// setupOps creates an Ops rooted at a fresh temporary directory
func setupOps(t *testing.T) (*Ops, string) {
	t.Helper()
	root, err := sandbox.New(t.TempDir())
	require.NoError(t, err)
	return NewOps(root, nil), root.Dir()
}

func writeTestFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

var bg = context.Background()

func contextWithCancel() (context.Context, context.CancelFunc) {
	return context.WithCancel(context.Background())
}
