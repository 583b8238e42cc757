package git_test

import (
	"iter"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sinclairtarget/git-authors/internal/git"
)

// Output of git log -z with our format: a trailing NUL after each record and
// a NUL between records.
const logDump = "ad6d3789cf56b4a8ae3f8632d43fa65f2ec823a0\x00ad6d378\x00" +
	"879e94bbbcbbec348ba1df332dd46e7314c62df1\x00Sinclair Target\x00" +
	"sinclairtarget@gmail.com\x00noreply@github.com\x001735304546\x00" +
	"\x00" +
	"879e94bbbcbbec348ba1df332dd46e7314c62df1\x00879e94b\x00" +
	"bf4136de996e9fb1f38620350cb7185613d71193 6afef28e996e9fb1f38620350cb7185613d71193\x00" +
	"Bob\x00bob@work.com\x00bob@work.com\x001735304522\x00" +
	"\x00" +
	"bf4136de996e9fb1f38620350cb7185613d71193\x00bf4136d\x00" +
	"\x00Jim\x00jim\x00jim\x001735304504\x00"

func readDump(dump string) iter.Seq[string] {
	fields := strings.Split(dump, "\x00")

	// Split() leaves an empty string after the final NUL; the scanner does not
	return slices.Values(fields[:len(fields)-1])
}

func TestParseCommits(t *testing.T) {
	lines := readDump(logDump)

	var commits []git.Commit
	for commit, err := range git.ParseCommits(lines) {
		if err != nil {
			t.Fatalf("error iterating commits: %v", err)
		}
		commits = append(commits, commit)
	}

	expected := []git.Commit{
		{
			Hash:           "ad6d3789cf56b4a8ae3f8632d43fa65f2ec823a0",
			ShortHash:      "ad6d378",
			AuthorName:     "Sinclair Target",
			AuthorEmail:    "sinclairtarget@gmail.com",
			CommitterEmail: "noreply@github.com",
			Date:           time.Unix(1735304546, 0),
		},
		{
			Hash:           "879e94bbbcbbec348ba1df332dd46e7314c62df1",
			ShortHash:      "879e94b",
			IsMerge:        true,
			AuthorName:     "Bob",
			AuthorEmail:    "bob@work.com",
			CommitterEmail: "bob@work.com",
			Date:           time.Unix(1735304522, 0),
		},
		{
			Hash:           "bf4136de996e9fb1f38620350cb7185613d71193",
			ShortHash:      "bf4136d",
			AuthorName:     "Jim",
			AuthorEmail:    "jim",
			CommitterEmail: "jim",
			Date:           time.Unix(1735304504, 0),
		},
	}

	if diff := cmp.Diff(expected, commits); diff != "" {
		t.Errorf("parsed commits are wrong:\n%s", diff)
	}
}

func TestParseCommitsBadDate(t *testing.T) {
	dump := "bf4136de996e9fb1f38620350cb7185613d71193\x00bf4136d\x00" +
		"\x00Jim\x00jim@mail.com\x00jim@mail.com\x00yesterday\x00"

	var gotErr error
	for _, err := range git.ParseCommits(readDump(dump)) {
		if err != nil {
			gotErr = err
			break
		}
	}

	if gotErr == nil {
		t.Fatal("expected error parsing non-numeric date but got none")
	}
}

func TestParseCommitsBadHash(t *testing.T) {
	dump := "not-a-hash\x00bf4136d\x00\x00Jim\x00jim@mail.com\x00" +
		"jim@mail.com\x001735304504\x00"

	var gotErr error
	for _, err := range git.ParseCommits(readDump(dump)) {
		if err != nil {
			gotErr = err
			break
		}
	}

	if gotErr == nil {
		t.Fatal("expected error parsing bad hash but got none")
	}
}

func TestParseCommitsTruncated(t *testing.T) {
	dump := "bf4136de996e9fb1f38620350cb7185613d71193\x00bf4136d\x00\x00Jim\x00"

	n := 0
	var gotErr error
	for _, err := range git.ParseCommits(readDump(dump)) {
		if err != nil {
			gotErr = err
			break
		}
		n += 1
	}

	if n != 0 {
		t.Errorf("expected no complete commits but got %d", n)
	}

	if gotErr == nil {
		t.Fatal("expected error for truncated record but got none")
	}
}

func TestParseCommitsEmpty(t *testing.T) {
	n := 0
	for _, err := range git.ParseCommits(slices.Values([]string{})) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n += 1
	}

	if n != 0 {
		t.Errorf("expected no commits but got %d", n)
	}
}
