package filesystem

import (
	"os"
	"path/filepath"

	"github.com/GriffinCanCode/fsagent/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsagent/internal/sandbox"
	"github.com/GriffinCanCode/fsagent/internal/types"
)

// Ops executes filesystem operations confined to a root
type Ops struct {
	root   *sandbox.Root
	logger *logging.Logger
}

// NewOps creates the operation set. A nil logger discards output.
func NewOps(root *sandbox.Root, logger *logging.Logger) *Ops {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Ops{root: root, logger: logger.Named("filesystem")}
}

// Root returns the confinement root
func (o *Ops) Root() *sandbox.Root {
	return o.root
}

// SearchOptions narrows recursive searches
type SearchOptions struct {
	// Pattern is a doublestar glob matched against the root-relative path
	Pattern string
	// Gitignore skips entries ignored by the search directory's .gitignore
	Gitignore bool
}

// entryFor describes p; size is nil when stat fails
func entryFor(p string) types.Entry {
	entry := types.Entry{Path: p, Name: filepath.Base(p)}
	info, err := os.Stat(p)
	if err != nil {
		// Broken links still report their own type
		if linfo, lerr := os.Lstat(p); lerr == nil {
			entry.IsDir = linfo.IsDir()
		}
		return entry
	}
	size := info.Size()
	entry.IsDir = info.IsDir()
	entry.Size = &size
	return entry
}
