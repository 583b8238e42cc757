/*
* Handles invoking Git as a subprocess.
 */
package cmd

import (
	"context"
	"fmt"
	"slices"
)

// Fields are NUL-separated; -z separates commits with another NUL.
//
// Hash, short hash, parents, author name, author email, committer email,
// committer date (unix).
const logFormat = "--pretty=format:%H%x00%h%x00%p%x00%an%x00%ae%x00%ce%x00%ct%x00"

// Number of fields printed for each commit by logFormat.
const LogFields = 7

// Runs git clone without checking out a working tree.
func RunClone(ctx context.Context, url string, dir string) (*Subprocess, error) {
	args := []string{
		"clone",
		"--quiet",
		"--no-checkout",
		"--no-tags",
		"--",
		url,
		dir,
	}

	subprocess, err := run(ctx, "", args)
	if err != nil {
		return nil, fmt.Errorf("failed to run git clone: %w", err)
	}

	return subprocess, nil
}

// Runs git rev-parse --verify to check that ref names a commit.
//
// Exits with code 1 and prints nothing when the ref does not exist.
func RunRevParseVerify(
	ctx context.Context,
	dir string,
	ref string,
) (*Subprocess, error) {
	args := []string{
		"rev-parse",
		"--verify",
		"--quiet",
		"--end-of-options",
		ref + "^{commit}",
	}

	subprocess, err := run(ctx, dir, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run git rev-parse: %w", err)
	}

	return subprocess, nil
}

// Runs git log, newest commit first.
func RunLog(ctx context.Context, dir string, rev string) (*Subprocess, error) {
	baseArgs := []string{
		"log",
		logFormat,
		"-z",
		"--no-show-signature",
		"--no-mailmap",
	}

	args := slices.Concat(baseArgs, []string{rev, "--"})

	subprocess, err := run(ctx, dir, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run git log: %w", err)
	}

	return subprocess, nil
}
