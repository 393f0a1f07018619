// Package topic compiles topic specifications into predicates over registered
// topic keys.
//
// # Specification Forms
//
// A specification is either a string or a Pattern:
//
//	"user.created"     literal, matches only the identical key
//	"user.*"           wildcard, "*" matches zero or more characters
//	"*"                matches every key
//	`price\*2`         "\*" is a literal asterisk, matches only "price*2"
//	regexp.MustCompile("^a.e$")   general pattern, used as-is
//
// Wildcard specifications are always anchored to the whole key, so "a*e"
// matches "abe" but not "babe". General patterns are never modified: a
// regular expression without anchors matches any key containing a match.
//
// # Usage
//
//	spec, err := topic.Parse("a*")
//	if err != nil {
//	    return err
//	}
//	spec.Match("abe") // true
//	spec.Match("babe") // false
package topic
