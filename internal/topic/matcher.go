package topic

import (
	"strings"
	"unicode/utf8"

	"github.com/tidwall/match"
)

// Predicate reports whether a registered topic key is selected.
type Predicate func(key string) bool

// Compile parses v and returns its predicate.
func Compile(v any) (Predicate, error) {
	s, err := Parse(v)
	if err != nil {
		return nil, err
	}
	return s.Match, nil
}

// Match reports whether key is selected by the specification.
func (s Spec) Match(key string) bool {
	switch s.kind {
	case KindAll:
		return true
	case KindLiteral:
		return key == s.literal
	case KindWildcard:
		if s.utf8 && utf8.ValidString(key) {
			return match.Match(key, s.glob)
		}
		return matchSegments(key, s.segments)
	case KindPattern:
		return s.pattern.MatchString(key)
	default:
		return false
	}
}

// matchSegments matches key byte by byte against literal segments separated
// by wildcards. match.Match decodes runes, so every invalid byte would compare
// equal to every other.
func matchSegments(key string, segments []string) bool {
	first, last := segments[0], segments[len(segments)-1]
	if len(key) < len(first)+len(last) ||
		!strings.HasPrefix(key, first) || !strings.HasSuffix(key, last) {
		return false
	}

	rest := key[len(first) : len(key)-len(last)]
	for _, seg := range segments[1 : len(segments)-1] {
		i := strings.Index(rest, seg)
		if i < 0 {
			return false
		}
		rest = rest[i+len(seg):]
	}
	return true
}

// Each calls fn for every key in keys selected by p, in order.
// present is consulted before fn so keys removed since the listing was taken
// are skipped; a nil present accepts every key.
func Each(keys []string, p Predicate, present func(string) bool, fn func(key string)) {
	for _, k := range keys {
		if !p(k) {
			continue
		}
		if present != nil && !present(k) {
			continue
		}
		fn(k)
	}
}
