// Package filter drops noise transactions and enriches the rest before they are
// persisted.
package filter

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// IgnoreList matches descriptions against a set of phrases, case-insensitively, as
// substrings. A Matcher keeps per-search state, so an IgnoreList must not be shared
// between goroutines.
type IgnoreList struct {
	phrases []string
	matcher *ahocorasick.Matcher
}

// NewIgnoreList builds a list from phrases. Blank phrases are dropped.
func NewIgnoreList(phrases ...string) *IgnoreList {
	l := &IgnoreList{}
	seen := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		l.phrases = append(l.phrases, p)
	}

	if len(l.phrases) > 0 {
		dict := make([][]byte, len(l.phrases))
		for i, p := range l.phrases {
			dict[i] = []byte(p)
		}
		l.matcher = ahocorasick.NewMatcher(dict)
	}
	return l
}

// BuildIgnoreList combines the configured noise phrases with the user's national id,
// when known.
func BuildIgnoreList(fixed []string, nationalID string) *IgnoreList {
	phrases := make([]string, 0, len(fixed)+1)
	phrases = append(phrases, fixed...)
	phrases = append(phrases, nationalID)
	return NewIgnoreList(phrases...)
}

// Len returns the number of phrases.
func (l *IgnoreList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.phrases)
}

// Match returns the first phrase contained in description.
func (l *IgnoreList) Match(description string) (string, bool) {
	if l == nil || l.matcher == nil {
		return "", false
	}
	hits := l.matcher.Match([]byte(strings.ToLower(description)))
	if len(hits) == 0 {
		return "", false
	}
	return l.phrases[hits[0]], true
}
