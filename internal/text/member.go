// Package text implements member title and name rendering.
package text

import (
	"strings"
)

// Role suffixes a committee roster may attach to a member string.
const (
	roleChairman     = "Chairman"
	roleViceChairman = "Vice Chairman"
)

// MemberTitle computes the rendered title and surname for a member string.
// The title comes from an explicit "Senator "/"Representative " prefix when
// present, else from a trailing " - Chairman"/" - Vice Chairman" role suffix
// (gender-adjusted via the female-member lookup), else defaults by the active
// committee's chamber.
func MemberTitle(member string, rc Context) (title, lastName string) {
	name := member
	role := ""
	for _, r := range []string{roleViceChairman, roleChairman} {
		if strings.HasSuffix(name, " - "+r) {
			role = r
			name = strings.TrimSuffix(name, " - "+r)
			break
		}
	}
	for _, t := range []string{"Senator", "Representative"} {
		if strings.HasPrefix(name, t+" ") {
			title = t
			name = strings.TrimSpace(strings.TrimPrefix(name, t+" "))
			break
		}
	}
	fields := strings.Fields(name)
	if len(fields) > 0 {
		lastName = fields[len(fields)-1]
	}
	if title != "" {
		return title, lastName
	}
	if role != "" {
		if rc.female(lastName) {
			switch role {
			case roleChairman:
				return "Chairwoman", lastName
			case roleViceChairman:
				return "Vice Chairwoman", lastName
			}
		}
		return role, lastName
	}
	if strings.Contains(strings.ToLower(rc.Committee), "senate") {
		return "Senator", lastName
	}
	return "Representative", lastName
}

// shortCommitteeName strips a full committee name down to its distinguishing
// word: "Senate Appropriations Committee" becomes "Appropriations".
func shortCommitteeName(committee string) string {
	name := committee
	for _, prefix := range []string{"Senate ", "House "} {
		if strings.HasPrefix(name, prefix) {
			name = strings.TrimPrefix(name, prefix)
			break
		}
	}
	name = strings.TrimSuffix(name, " Committee")
	return strings.TrimSpace(name)
}

// indefiniteArticle picks "a" or "an" for a word.
func indefiniteArticle(word string) string {
	if word == "" {
		return "a"
	}
	switch strings.ToLower(word[:1]) {
	case "a", "e", "i", "o", "u":
		return "an"
	}
	return "a"
}

// motionPhrase lower-cases a motion detail and prepends its article, used by
// the procedural register for recognized motion types.
func motionPhrase(detail string) string {
	lower := strings.ToLower(detail)
	return indefiniteArticle(lower) + " " + lower
}
