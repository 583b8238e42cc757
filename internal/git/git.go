/*
* Wraps access to the commit history of a remote repository.
*
* A Provider clones the repository into a local workspace and walks the history
* of one branch. There are two: one built on go-git that runs in process, and
* one that invokes Git directly as a subprocess and parses its output.
 */
package git

import (
	"context"
	"fmt"
	"io"
	"iter"
	"time"
)

type Commit struct {
	Hash           string
	ShortHash      string
	IsMerge        bool
	AuthorName     string
	AuthorEmail    string
	CommitterEmail string
	Date           time.Time // Committer date
}

func (c Commit) Name() string {
	if c.ShortHash != "" {
		return c.ShortHash
	} else if c.Hash != "" {
		return c.Hash
	} else {
		return "unknown"
	}
}

func (c Commit) String() string {
	return fmt.Sprintf(
		"{ hash:%s author:<%s> committer:<%s> date:%s merge:%v }",
		c.Name(),
		c.AuthorEmail,
		c.CommitterEmail,
		c.Date.UTC().Format(time.DateTime),
		c.IsMerge,
	)
}

// Produces the commit history of a branch of a remote repository.
type Provider interface {
	Name() string

	// Clone materializes the repository at url into dir.
	//
	// Failures are returned as a *CloneError.
	Clone(ctx context.Context, url string, dir string) error

	// Commits returns an iterator over the commits reachable from the tip of
	// branch, most recent first, along with a closer() function for cleanup.
	//
	// Returns a *BranchNotFoundError if the branch does not exist.
	Commits(ctx context.Context, dir string, branch string) (
		iter.Seq2[Commit, error],
		func() error,
		error,
	)
}

const (
	GoGitProviderName = "gogit"
	ExecProviderName  = "exec"
)

// Returns the provider registered under the given name.
//
// If progress is not nil, the gogit provider writes clone progress to it. Git
// run as a subprocess is always quiet.
func NewProvider(name string, progress io.Writer) (Provider, error) {
	switch name {
	case GoGitProviderName:
		return GoGitProvider{Progress: progress}, nil
	case ExecProviderName:
		return ExecProvider{}, nil
	default:
		return nil, fmt.Errorf(
			"unknown provider \"%s\" (expected %s or %s)",
			name,
			GoGitProviderName,
			ExecProviderName,
		)
	}
}
