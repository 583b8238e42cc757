package subcommands

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sinclairtarget/git-authors/internal/format"
	"github.com/sinclairtarget/git-authors/internal/git"
	"github.com/sinclairtarget/git-authors/internal/iterutils"
	"github.com/sinclairtarget/git-authors/internal/pretty"
	"github.com/sinclairtarget/git-authors/internal/tally"
	"github.com/sinclairtarget/git-authors/internal/timeutils"
)

const workspacePrefix = "git-authors-"

type AuthorsOpts struct {
	URL         string
	Branch      string
	SinceMonths int
	Provider    git.Provider
	Out         *pretty.Printer
	Now         time.Time // Start of the window; the cutoff is counted back from here
}

// Clones the repository, tallies commit authors on the branch within the last
// SinceMonths months, and prints them ranked by commit count.
func Authors(ctx context.Context, opts AuthorsOpts) (err error) {
	defer func() {
		if err != nil && !errors.Is(err, git.ErrBranchNotFound) {
			err = fmt.Errorf("error running \"authors\": %w", err)
		}
	}()

	logger().WithFields(logrus.Fields{
		"url":         opts.URL,
		"branch":      opts.Branch,
		"sinceMonths": opts.SinceMonths,
		"provider":    opts.Provider.Name(),
	}).Debug("called authors()")

	start := time.Now()

	ws, err := git.NewWorkspace(workspacePrefix)
	if err != nil {
		return err
	}
	defer removeWorkspace(ws)

	commits, closer, err := cloneBranch(ctx, opts.Provider, ws, opts.URL, opts.Branch, opts.Out)
	if err != nil {
		return err
	}

	opts.Out.Progressf("Retrieving commit authors from %s", opts.Branch)

	cutoff := timeutils.MonthsBefore(opts.Now.UTC(), opts.SinceMonths)
	opts.Out.Progressf("Looking for commits since %s", format.Time(cutoff))

	// Realize the whole history before scanning it
	all, err := iterutils.Collect(commits)
	closeErr := closer()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	logger().WithField("count", len(all)).Debug("collected commits")

	result, err := tally.TallyCommits(iterutils.Values(all), cutoff)
	if err != nil {
		return err
	}

	if result.Stop != nil {
		opts.Out.Noticef(
			"Reached analysis constraint at commit date: %s",
			format.Time(result.Stop.Date),
		)
	}

	for _, ranked := range tally.Rank(result.Tallies) {
		opts.Out.Println(format.AuthorLine(ranked.Key, ranked.Stats))
	}

	elapsed := time.Now().Sub(start)
	logger().WithField("duration_ms", elapsed.Milliseconds()).Debug(
		"finished authors",
	)

	return nil
}

// Clones url into the workspace and opens the history of branch.
//
// Prints "No such branch" and returns an error matching git.ErrBranchNotFound
// if the branch does not exist.
func cloneBranch(
	ctx context.Context,
	provider git.Provider,
	ws *git.Workspace,
	url string,
	branch string,
	out *pretty.Printer,
) (_ iter.Seq2[git.Commit, error], _ func() error, err error) {
	out.Progressf("Cloning %s to %s", url, ws.Dir)

	err = provider.Clone(ctx, url, ws.Dir)
	if err != nil {
		return nil, nil, err
	}

	out.Progressf("Retrieving branch %s", branch)

	commits, closer, err := provider.Commits(ctx, ws.Dir, branch)
	if errors.Is(err, git.ErrBranchNotFound) {
		out.Println(fmt.Sprintf("No such branch: %s", branch))
		return nil, nil, err
	} else if err != nil {
		return nil, nil, err
	}

	return commits, closer, nil
}

func removeWorkspace(ws *git.Workspace) {
	err := ws.Remove()
	if err != nil {
		logger().Warn(fmt.Sprintf("failed to clean up: %v", err))
	}
}
