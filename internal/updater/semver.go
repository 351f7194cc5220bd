package updater

import (
	"strconv"
	"strings"
)

// isNewer reports whether candidate is a strictly greater version than
// current, comparing dotted major.minor.patch numerically (non-numeric or
// missing components compare as 0). No example repo in the pack compares
// semantic versions — StreamSpace's scheduling.go only parses cron
// expressions, not semver — so this stays a small stdlib-only comparator
// rather than reaching for a versioning library nothing else in the corpus
// uses.
func isNewer(current, candidate string) bool {
	c := parseVersion(current)
	n := parseVersion(candidate)
	for i := 0; i < 3; i++ {
		if n[i] != c[i] {
			return n[i] > c[i]
		}
	}
	return false
}

func parseVersion(v string) [3]int {
	v = strings.TrimPrefix(v, "v")
	parts := strings.SplitN(v, ".", 3)
	var out [3]int
	for i := 0; i < len(parts) && i < 3; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			continue
		}
		out[i] = n
	}
	return out
}
