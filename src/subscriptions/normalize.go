// backend/src/subscriptions/normalize.go
package subscriptions

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRe       = regexp.MustCompile(`[^a-z0-9\s]`)
	processorTokenRe = regexp.MustCompile(`\b(sq|tst|paypal|pos)\b`)
	numberTokenRe    = regexp.MustCompile(`\b\d+\b`)
)

// NormalizeDescription reduces a statement description to a merchant key:
// lowercase, alphanumerics only, payment-processor prefixes and standalone
// numbers removed, first three words. "SQ *BLUE BOTTLE COFFEE #1234" and
// "SQ *BLUE BOTTLE COFFEE #5678" both become "blue bottle coffee".
func NormalizeDescription(desc string) string {
	s := strings.ToLower(desc)
	s = nonAlnumRe.ReplaceAllString(s, "")
	s = processorTokenRe.ReplaceAllString(s, "")
	s = numberTokenRe.ReplaceAllString(s, "")

	words := strings.Fields(s)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}

// LevenshteinDistance is the unit-cost edit distance between two keys, used
// to absorb formatting drift between statement periods.
func LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
