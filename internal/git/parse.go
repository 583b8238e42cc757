package git

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/sinclairtarget/git-authors/internal/git/cmd"
	"github.com/sinclairtarget/git-authors/internal/git/revision"
)

// Turns an iterator over NUL-delimited fields from git log -z into an iterator
// of commits.
func ParseCommits(lines iter.Seq[string]) iter.Seq2[Commit, error] {
	return func(yield func(Commit, error) bool) {
		var commit Commit
		fieldsThisCommit := 0

		for line := range lines {
			// Empty token between the trailing NUL of one commit and the -z
			// separator. Hashes are never empty, so skip it.
			if fieldsThisCommit == 0 && len(line) == 0 {
				continue
			}

			switch fieldsThisCommit {
			case 0:
				if !revision.IsFullHash(line) {
					yield(
						commit,
						fmt.Errorf("expected commit hash but got \"%s\"", line),
					)
					return
				}
				commit.Hash = line
			case 1:
				commit.ShortHash = line
			case 2:
				parents := strings.Fields(line)
				commit.IsMerge = len(parents) > 1
			case 3:
				commit.AuthorName = line
			case 4:
				commit.AuthorEmail = line
			case 5:
				commit.CommitterEmail = line
			case 6:
				i, err := strconv.ParseInt(line, 10, 64)
				if err != nil {
					yield(
						commit,
						fmt.Errorf(
							"error parsing date from commit %s: %w",
							commit.Name(),
							err,
						),
					)
					return
				}

				commit.Date = time.Unix(i, 0)
			}

			fieldsThisCommit += 1

			if fieldsThisCommit == cmd.LogFields {
				if !yield(commit, nil) {
					return
				}

				commit = Commit{}
				fieldsThisCommit = 0
			}
		}

		if fieldsThisCommit > 0 {
			yield(
				commit,
				fmt.Errorf(
					"truncated record for commit %s: got %d of %d fields",
					commit.Name(),
					fieldsThisCommit,
					cmd.LogFields,
				),
			)
		}
	}
}
