package main

import (
	"bytes"
	"context"
	"io"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/git-authors/internal/git"
	"github.com/sinclairtarget/git-authors/internal/iterutils"
)

const testURL = "https://example.com/repo.git"

// Serves one fixed commit on "main" and records how it was called.
type stubProvider struct {
	name     string
	progress io.Writer

	clonedURL string
	branch    string
}

func (p *stubProvider) Name() string {
	return p.name
}

func (p *stubProvider) Clone(ctx context.Context, url string, dir string) error {
	p.clonedURL = url
	return nil
}

func (p *stubProvider) Commits(
	ctx context.Context,
	dir string,
	branch string,
) (iter.Seq2[git.Commit, error], func() error, error) {
	p.branch = branch
	if branch != "main" {
		return nil, nil, &git.BranchNotFoundError{Branch: branch}
	}

	commits := []git.Commit{
		{
			Hash:        "ad6d3789cf56b4a8ae3f8632d43fa65f2ec823a0",
			ShortHash:   "ad6d378",
			AuthorEmail: "alice@x.com",
			Date:        time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC),
		},
	}
	return iterutils.Values(commits), func() error { return nil }, nil
}

type run struct {
	provider *stubProvider
	stdout   string
	stderr   string
	err      error
}

func execute(t *testing.T, args ...string) run {
	t.Helper()

	var stdout, stderr bytes.Buffer
	provider := &stubProvider{}

	e := env{
		newProvider: func(name string, progress io.Writer) (git.Provider, error) {
			if name != git.GoGitProviderName && name != git.ExecProviderName {
				return git.NewProvider(name, progress)
			}

			provider.name = name
			provider.progress = progress
			return provider, nil
		},
		stdout: &stdout,
		stderr: &stderr,
		now: func() time.Time {
			return time.Date(2024, 8, 31, 12, 0, 0, 0, time.UTC)
		},
	}

	cmd := newRootCmd(e)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())

	return run{
		provider: provider,
		stdout:   stdout.String(),
		stderr:   stderr.String(),
		err:      err,
	}
}

func TestDefaults(t *testing.T) {
	r := execute(t, testURL)
	require.NoError(t, r.err)

	assert.Equal(t, git.GoGitProviderName, r.provider.name)
	assert.Equal(t, testURL, r.provider.clonedURL)
	assert.Equal(t, "main", r.provider.branch)
	assert.Nil(t, r.provider.progress)

	assert.Contains(t, r.stdout, "Retrieving branch main\n")
	assert.Contains(t, r.stdout, "Looking for commits since 2024-02-29 12:00:00\n")
	assert.Contains(t, r.stdout, "alice:\t{'count': 1, 'emails': {'alice@x.com'}}\n")
	assert.Empty(t, r.stderr)

	code, msg := exitCode(r.err)
	assert.Equal(t, 0, code)
	assert.Empty(t, msg)
}

func TestFlags(t *testing.T) {
	r := execute(
		t,
		"--since-months", "1",
		"--provider", "exec",
		"--no-color",
		testURL,
	)
	require.NoError(t, r.err)

	assert.Equal(t, git.ExecProviderName, r.provider.name)
	assert.Contains(t, r.stdout, "Looking for commits since 2024-07-31 12:00:00\n")
	assert.Contains(t, r.stdout, "alice:\t{'count': 1, 'emails': {'alice@x.com'}}\n")
	assert.NotContains(t, r.stdout, "\x1b[")
}

func TestVerboseSendsProgressToStderr(t *testing.T) {
	r := execute(t, "-v", testURL)
	require.NoError(t, r.err)

	require.NotNil(t, r.provider.progress)
	assert.Contains(t, r.stderr, "log level set to DEBUG")

	// Leave the shared logger as the other tests expect it
	configureLogging(io.Discard, false)
}

func TestNegativeSinceMonths(t *testing.T) {
	r := execute(t, "--since-months=-1", testURL)
	require.Error(t, r.err)
	assert.ErrorContains(t, r.err, "--since-months")
	assert.Empty(t, r.provider.clonedURL)

	code, msg := exitCode(r.err)
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, msg)
}

func TestPositionalArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing", []string{}},
		{"extra", []string{testURL, "develop"}},
		{"parse missing", []string{"parse"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := execute(t, test.args...)
			require.Error(t, r.err)
			assert.Empty(t, r.provider.clonedURL)

			code, msg := exitCode(r.err)
			assert.Equal(t, 1, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestUnknownProvider(t *testing.T) {
	r := execute(t, "--provider", "libgit2", testURL)
	require.Error(t, r.err)
	assert.ErrorContains(t, r.err, "libgit2")
}

func TestBranchNotFound(t *testing.T) {
	r := execute(t, "--branch", "nope", testURL)
	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, git.ErrBranchNotFound)

	assert.Contains(t, r.stdout, "No such branch: nope\n")
	assert.NotContains(t, r.stdout, "Retrieving commit authors")
	assert.Empty(t, r.stderr)

	code, msg := exitCode(r.err)
	assert.Equal(t, 1, code)
	assert.Empty(t, msg, "missing branch should print nothing to stderr")
}

func TestParseCommand(t *testing.T) {
	r := execute(t, "parse", "--branch", "main", testURL)
	require.NoError(t, r.err)

	assert.Contains(t, r.stdout, "{ hash:ad6d378 author:<alice@x.com>")
}

func TestVersion(t *testing.T) {
	r := execute(t, "--version")
	require.NoError(t, r.err)

	assert.Equal(t, "unknown unknown\n", r.stdout)
	assert.Empty(t, r.provider.clonedURL)
}
