// Handles summations over commits.
package tally

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sinclairtarget/git-authors/internal/git"
)

// Metrics tallied for a single author key while walking git log.
type AuthorStats struct {
	Count  int             // Num commits whose author email maps to the key
	Emails map[string]bool // Distinct full author emails seen for the key
}

// Email addresses in lexical order.
func (s AuthorStats) SortedEmails() []string {
	emails := make([]string, 0, len(s.Emails))
	for email := range s.Emails {
		emails = append(emails, email)
	}

	slices.Sort(emails)
	return emails
}

// Returns the key we aggregate authors by: the local part of the email, i.e.
// everything before the first "@".
//
// Different addresses with the same local part collide. An address with no
// "@" is used whole.
func AuthorKey(email string) string {
	key, _, found := strings.Cut(email, "@")
	if !found {
		logger().WithField("email", email).Debug(
			"author email has no @, using whole address as key",
		)
	}

	return key
}

// Author stats by key. Remembers the order in which keys were first seen.
type Tallies struct {
	stats map[string]*AuthorStats
	order []string
}

func NewTallies() *Tallies {
	return &Tallies{
		stats: map[string]*AuthorStats{},
	}
}

func (t *Tallies) Add(commit git.Commit) {
	key := AuthorKey(commit.AuthorEmail)

	stats, ok := t.stats[key]
	if !ok {
		stats = &AuthorStats{Emails: map[string]bool{}}
		t.stats[key] = stats
		t.order = append(t.order, key)
	}

	stats.Count += 1
	stats.Emails[commit.AuthorEmail] = true
}

func (t *Tallies) Get(key string) (AuthorStats, bool) {
	stats, ok := t.stats[key]
	if !ok {
		return AuthorStats{}, false
	}

	return *stats, true
}

// Number of distinct author keys.
func (t *Tallies) Len() int {
	return len(t.order)
}

// Keys in the order they were first seen.
func (t *Tallies) Keys() []string {
	return slices.Clone(t.order)
}

// Sum of commit counts over all authors.
func (t *Tallies) Total() int {
	total := 0
	for _, stats := range t.stats {
		total += stats.Count
	}

	return total
}

type Result struct {
	Tallies *Tallies

	// The first commit older than the cutoff, where tallying stopped. Nil if
	// every commit was within the window.
	Stop *git.Commit
}

// Tallies commits by author key until reaching the first commit strictly older
// than cutoff.
//
// Commits must be ordered newest first. Nothing at or after the stop commit is
// counted, even if a later commit is newer than the cutoff again.
func TallyCommits(
	commits iter.Seq2[git.Commit, error],
	cutoff time.Time,
) (_ Result, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error while tallying commits: %w", err)
		}
	}()

	result := Result{Tallies: NewTallies()}
	start := time.Now()

	for commit, err := range commits {
		if err != nil {
			return result, fmt.Errorf("error iterating commits: %w", err)
		}

		if commit.Date.Before(cutoff) {
			stop := commit
			result.Stop = &stop

			logger().WithFields(logrus.Fields{
				"commit": commit.Name(),
				"date":   commit.Date.UTC(),
				"cutoff": cutoff.UTC(),
			}).Debug("reached commit older than cutoff")
			break
		}

		result.Tallies.Add(commit)
	}

	elapsed := time.Now().Sub(start)
	logger().WithFields(logrus.Fields{
		"authors":     result.Tallies.Len(),
		"commits":     result.Tallies.Total(),
		"duration_ms": elapsed.Milliseconds(),
	}).Debug("tallied commits")

	return result, nil
}

type Ranked struct {
	Key   string
	Stats AuthorStats
}

// Orders authors by commit count, most first. Ties keep the order in which
// the authors were first seen.
func Rank(tallies *Tallies) []Ranked {
	ranked := make([]Ranked, 0, tallies.Len())
	for _, key := range tallies.order {
		ranked = append(ranked, Ranked{Key: key, Stats: *tallies.stats[key]})
	}

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return b.Stats.Count - a.Stats.Count
	})
	return ranked
}
