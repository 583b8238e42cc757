package subcommands

import (
	"context"
	"fmt"

	"github.com/sinclairtarget/git-authors/internal/git"
	"github.com/sinclairtarget/git-authors/internal/pretty"
)

type ParseOpts struct {
	URL      string
	Branch   string
	Provider git.Provider
	Out      *pretty.Printer
}

// Just prints out a simple representation of the commits parsed from the
// branch, for debugging.
func Parse(ctx context.Context, opts ParseOpts) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running \"parse\": %w", err)
		}
	}()

	logger().WithField("url", opts.URL).Debug("called parse()")

	ws, err := git.NewWorkspace(workspacePrefix)
	if err != nil {
		return err
	}
	defer removeWorkspace(ws)

	commits, closer, err := cloneBranch(ctx, opts.Provider, ws, opts.URL, opts.Branch, opts.Out)
	if err != nil {
		return err
	}

	// Always wait on the walk, even if it failed part way
	defer func() {
		closeErr := closer()
		if err == nil {
			err = closeErr
		}
	}()

	for commit, err := range commits {
		if err != nil {
			return fmt.Errorf("error iterating commits: %w", err)
		}

		opts.Out.Println(commit.String())
	}

	return nil
}
