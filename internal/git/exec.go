package git

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sinclairtarget/git-authors/internal/git/cmd"
)

// Clones and walks history by running the Git binary as a subprocess.
type ExecProvider struct{}

var _ Provider = ExecProvider{}

func (p ExecProvider) Name() string {
	return ExecProviderName
}

func (p ExecProvider) Clone(ctx context.Context, url string, dir string) error {
	start := time.Now()

	subprocess, err := cmd.RunClone(ctx, url, dir)
	if err != nil {
		return &CloneError{URL: url, Err: err}
	}

	err = subprocess.Wait()
	if err != nil {
		return &CloneError{URL: url, Err: err}
	}

	elapsed := time.Now().Sub(start)
	logger().WithFields(logrus.Fields{
		"url":         url,
		"duration_ms": elapsed.Milliseconds(),
	}).Debug("cloned repository with git subprocess")

	return nil
}

func (p ExecProvider) Commits(
	ctx context.Context,
	dir string,
	branch string,
) (_ iter.Seq2[Commit, error], _ func() error, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error reading history of %s: %w", branch, err)
		}
	}()

	rev, err := verifyBranch(ctx, dir, branch)
	if err != nil {
		return nil, nil, err
	}

	subprocess, err := cmd.RunLog(ctx, dir, rev)
	if err != nil {
		return nil, nil, err
	}

	lines, finish := subprocess.StdoutNullDelimitedLines()
	commits := ParseCommits(lines)

	seq := func(yield func(Commit, error) bool) {
		for commit, err := range commits {
			if !yield(commit, err) {
				return
			}
		}

		if err := finish(); err != nil {
			yield(Commit{}, err)
		}
	}

	closer := func() error {
		return subprocess.Wait()
	}

	return seq, closer, nil
}

// Returns the fully qualified ref for the branch: the local branch if there is
// one, otherwise the branch on origin.
func verifyBranch(ctx context.Context, dir string, branch string) (string, error) {
	candidates := []string{
		"refs/heads/" + branch,
		"refs/remotes/origin/" + branch,
	}

	for _, ref := range candidates {
		ok, err := refExists(ctx, dir, ref)
		if err != nil {
			return "", err
		}

		if ok {
			logger().WithFields(logrus.Fields{
				"branch": branch,
				"ref":    ref,
			}).Debug("resolved branch")
			return ref, nil
		}
	}

	return "", &BranchNotFoundError{Branch: branch}
}

func refExists(ctx context.Context, dir string, ref string) (bool, error) {
	subprocess, err := cmd.RunRevParseVerify(ctx, dir, ref)
	if err != nil {
		return false, err
	}

	err = subprocess.Wait()
	if err != nil {
		var subprocessErr cmd.SubprocessErr
		if errors.As(err, &subprocessErr) && subprocessErr.ExitCode == 1 {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
