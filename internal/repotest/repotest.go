// Helpers for building throwaway Git repositories in tests.
package repotest

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// One commit to write into a test repository.
type Commit struct {
	AuthorEmail    string
	CommitterEmail string // Defaults to AuthorEmail
	When           time.Time
}

// Creates a repository in a temp dir whose HEAD is the given branch, then
// writes the commits to it in order (so pass them oldest first).
//
// Returns the path to the repository.
func NewRepo(t *testing.T, branch string, commits []Commit) string {
	t.Helper()

	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("could not init test repo: %v", err)
	}

	head := plumbing.NewSymbolicReference(
		plumbing.HEAD,
		plumbing.NewBranchReferenceName(branch),
	)
	err = repo.Storer.SetReference(head)
	if err != nil {
		t.Fatalf("could not point HEAD at %s: %v", branch, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("could not get worktree: %v", err)
	}

	for i, c := range commits {
		path := filepath.Join(dir, "file.txt")
		err := os.WriteFile(path, []byte(fmt.Sprintf("%d\n", i)), 0o644)
		if err != nil {
			t.Fatalf("could not write file: %v", err)
		}

		_, err = wt.Add("file.txt")
		if err != nil {
			t.Fatalf("could not stage file: %v", err)
		}

		committerEmail := c.CommitterEmail
		if committerEmail == "" {
			committerEmail = c.AuthorEmail
		}

		_, err = wt.Commit(fmt.Sprintf("commit %d", i), &gogit.CommitOptions{
			Author: &object.Signature{
				Name:  c.AuthorEmail,
				Email: c.AuthorEmail,
				When:  c.When,
			},
			Committer: &object.Signature{
				Name:  committerEmail,
				Email: committerEmail,
				When:  c.When,
			},
		})
		if err != nil {
			t.Fatalf("could not commit: %v", err)
		}
	}

	return dir
}

// Skips the test if the named program is not on the PATH.
func RequireBinary(t *testing.T, name string) {
	t.Helper()

	_, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not found on PATH: %v", name, err)
	}
}
