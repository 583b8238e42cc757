package revision

import (
	"regexp"
)

var commitHashRegexp *regexp.Regexp

func init() {
	commitHashRegexp = regexp.MustCompile(`^[a-f0-9]+$`)
}

// Returns true if this is a full-length Git object hash, false otherwise.
//
// SHA-1 hashes are 40 characters long and SHA-256 hashes are 64.
func IsFullHash(s string) bool {
	matched := commitHashRegexp.MatchString(s)
	return matched && (len(s) == 40 || len(s) == 64)
}
