package git

import (
	"fmt"
	"os"
)

// A temporary directory that a repository is cloned into.
//
// Callers should defer Remove() as soon as NewWorkspace() returns so that the
// directory is deleted on every exit path.
type Workspace struct {
	Dir string
}

func NewWorkspace(prefix string) (*Workspace, error) {
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		return nil, fmt.Errorf("could not create temporary directory: %w", err)
	}

	logger().WithField("dir", dir).Debug("workspace created")
	return &Workspace{Dir: dir}, nil
}

// Deletes the workspace and everything in it. Safe to call more than once.
func (w *Workspace) Remove() error {
	if w == nil || w.Dir == "" {
		return nil
	}

	err := os.RemoveAll(w.Dir)
	if err != nil {
		return fmt.Errorf("could not remove workspace %s: %w", w.Dir, err)
	}

	logger().WithField("dir", w.Dir).Debug("workspace removed")
	w.Dir = ""
	return nil
}
