package topic

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"
)

// Wildcard and escape characters recognised in string specifications.
const (
	// Wildcard matches zero or more arbitrary characters.
	Wildcard = '*'

	// Escape turns a following Wildcard into a literal asterisk.
	Escape = '\\'

	// All is the specification that matches every topic.
	All = "*"
)

// ErrInvalidSpec is returned when a specification is neither a string nor a Pattern.
var ErrInvalidSpec = errors.New("topic specification must be a string or a pattern")

// Pattern is a general, caller-supplied matcher such as *regexp.Regexp.
type Pattern interface {
	MatchString(s string) bool
}

// Kind identifies which form a Spec was parsed from.
type Kind int

const (
	// KindLiteral matches a single exact topic.
	KindLiteral Kind = iota

	// KindWildcard matches topics conforming to a wildcard expansion.
	KindWildcard

	// KindAll matches every topic.
	KindAll

	// KindPattern delegates to a caller-supplied Pattern.
	KindPattern
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindWildcard:
		return "wildcard"
	case KindAll:
		return "all"
	case KindPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// Spec is a parsed topic specification.
type Spec struct {
	kind    Kind
	raw     string
	literal string
	glob    string
	pattern Pattern

	// segments holds the literal text between wildcards, for byte-wise
	// matching of text that is not valid UTF-8.
	segments []string
	utf8     bool
}

// Parse parses v into a Spec.
// v must be a string or a non-nil Pattern.
func Parse(v any) (Spec, error) {
	switch s := v.(type) {
	case string:
		return parseString(s), nil
	case Pattern:
		if isNil(s) {
			return Spec{}, fmt.Errorf("%w: nil %T", ErrInvalidSpec, s)
		}
		return Spec{kind: KindPattern, raw: fmt.Sprint(s), pattern: s}, nil
	default:
		return Spec{}, fmt.Errorf("%w: got %T", ErrInvalidSpec, v)
	}
}

// MustParse is like Parse but panics on error.
func MustParse(v any) Spec {
	s, err := Parse(v)
	if err != nil {
		panic(err)
	}
	return s
}

// parseString scans s left to right, separating literal text from wildcards.
// The literal form has every "\*" replaced by "*"; the glob form is the
// equivalent pattern in tidwall/match syntax; segments split the literal
// form at each unescaped wildcard.
func parseString(s string) Spec {
	if s == All {
		return Spec{kind: KindAll, raw: s}
	}

	var lit, glob, seg strings.Builder
	lit.Grow(len(s))
	glob.Grow(len(s) + 4)

	var segments []string
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == Escape && i+1 < len(s) && s[i+1] == Wildcard:
			lit.WriteByte(Wildcard)
			seg.WriteByte(Wildcard)
			glob.WriteByte(Escape)
			glob.WriteByte(Wildcard)
			i++
		case c == Wildcard:
			segments = append(segments, seg.String())
			seg.Reset()
			glob.WriteByte(Wildcard)
		case c == Escape || c == '?':
			// tidwall/match treats both as meta characters.
			lit.WriteByte(c)
			seg.WriteByte(c)
			glob.WriteByte(Escape)
			glob.WriteByte(c)
		default:
			lit.WriteByte(c)
			seg.WriteByte(c)
			glob.WriteByte(c)
		}
	}

	if segments == nil {
		return Spec{kind: KindLiteral, raw: s, literal: lit.String()}
	}
	return Spec{
		kind:     KindWildcard,
		raw:      s,
		glob:     glob.String(),
		segments: append(segments, seg.String()),
		utf8:     utf8.ValidString(s),
	}
}

// Kind returns the form of the specification.
func (s Spec) Kind() Kind {
	return s.kind
}

// Literal returns the exact topic matched by a literal specification.
func (s Spec) Literal() (string, bool) {
	if s.kind != KindLiteral {
		return "", false
	}
	return s.literal, true
}

// String returns the specification as it was given.
func (s Spec) String() string {
	return s.raw
}

func isNil(p Pattern) bool {
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
