package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus"
)

// Clones and walks history in process using go-git. Needs no Git binary.
type GoGitProvider struct {
	Progress io.Writer // Optional sink for clone progress output
}

var _ Provider = GoGitProvider{}

func (p GoGitProvider) Name() string {
	return GoGitProviderName
}

func (p GoGitProvider) Clone(ctx context.Context, url string, dir string) error {
	start := time.Now()

	_, err := gogit.PlainCloneContext(ctx, dir, false, &gogit.CloneOptions{
		URL:        url,
		NoCheckout: true,
		Tags:       gogit.NoTags,
		Progress:   p.Progress,
	})
	if err != nil {
		return &CloneError{URL: url, Err: err}
	}

	elapsed := time.Now().Sub(start)
	logger().WithFields(logrus.Fields{
		"url":         url,
		"duration_ms": elapsed.Milliseconds(),
	}).Debug("cloned repository with go-git")

	return nil
}

func (p GoGitProvider) Commits(
	ctx context.Context,
	dir string,
	branch string,
) (_ iter.Seq2[Commit, error], _ func() error, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error reading history of %s: %w", branch, err)
		}
	}()

	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return nil, nil, err
	}

	ref, err := resolveBranch(repo, branch)
	if err != nil {
		return nil, nil, err
	}

	logger().WithFields(logrus.Fields{
		"branch": branch,
		"ref":    ref.Name().String(),
		"tip":    ref.Hash().String(),
	}).Debug("resolved branch")

	commitIter, err := repo.Log(&gogit.LogOptions{
		From:  ref.Hash(),
		Order: gogit.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, nil, err
	}

	seq := func(yield func(Commit, error) bool) {
		for {
			if err := ctx.Err(); err != nil {
				yield(Commit{}, err)
				return
			}

			c, err := commitIter.Next()
			if err == io.EOF {
				return
			} else if err != nil {
				yield(Commit{}, fmt.Errorf("error walking commits: %w", err))
				return
			}

			if !yield(fromObject(c), nil) {
				return
			}
		}
	}

	closer := func() error {
		commitIter.Close()
		return nil
	}

	return seq, closer, nil
}

// Tries the local branch first, then the branch on origin.
func resolveBranch(repo *gogit.Repository, branch string) (*plumbing.Reference, error) {
	names := []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(branch),
		plumbing.NewRemoteReferenceName("origin", branch),
	}

	for _, name := range names {
		ref, err := repo.Reference(name, true)
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			continue
		} else if err != nil {
			return nil, err
		}

		return ref, nil
	}

	return nil, &BranchNotFoundError{Branch: branch}
}

func fromObject(c *object.Commit) Commit {
	hash := c.Hash.String()
	return Commit{
		Hash:           hash,
		ShortHash:      hash[:7],
		IsMerge:        c.NumParents() > 1,
		AuthorName:     c.Author.Name,
		AuthorEmail:    c.Author.Email,
		CommitterEmail: c.Committer.Email,
		Date:           c.Committer.When,
	}
}
