// Package models defines the fixed suggestion lists served by the option resolver.
package models

// SuggestedMotionTypes is the fixed suggestion list for base motion steps.
var SuggestedMotionTypes = []string{
	"Do Pass",
	"Do Not Pass",
	"Amend",
	"Reconsider",
	"Without Committee Recommendation",
	"Rerefer",
}

// SuggestedFailureReasons is the fixed suggestion list for failed-motion steps.
var SuggestedFailureReasons = []string{
	"for Lack of a Second",
	"Due to a Tie Vote",
	"for Lack of a Majority",
}

// IsMotionType reports whether detail is a recognized motion type. The
// procedural text constructor adds an indefinite article only for these.
func IsMotionType(detail string) bool {
	for _, mt := range SuggestedMotionTypes {
		if mt == detail {
			return true
		}
	}
	return false
}
