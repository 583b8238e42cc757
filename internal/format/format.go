/*
* Utility functions for formatting output.
 */
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/sinclairtarget/git-authors/internal/tally"
)

const timeLayout = time.DateTime

// Prints a timestamp in UTC.
func Time(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Renders one line of the author report:
//
//	bob:	{'count': 2, 'emails': {'bob@home.org', 'bob@work.com'}}
func AuthorLine(key string, stats tally.AuthorStats) string {
	return fmt.Sprintf(
		"%s:\t{'count': %d, 'emails': %s}",
		key,
		stats.Count,
		Set(stats.SortedEmails()),
	)
}

// Renders strings as a set literal, e.g. {'a', 'b'}. Empty set is {}.
func Set(values []string) string {
	var b strings.Builder
	b.WriteRune('{')

	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(v))
	}

	b.WriteRune('}')
	return b.String()
}

// Single-quotes s, escaping backslashes and single quotes.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
