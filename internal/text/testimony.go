// Package text implements the testimony constructor.
package text

import (
	"fmt"
	"strings"

	"github.com/gavelworks/clerkpipe/internal/models"
)

// testimonyConstructor renders testimony entries. The structured fields live
// on the path entry's details, carried separately from the display value.
type testimonyConstructor struct{}

func (c *testimonyConstructor) Tech(p models.Path, rc Context) (string, error) {
	d := testimonyDetails(p)
	if d == nil {
		return rawJoin(p), nil
	}
	var parts []string
	if d.IntroducingBill && d.Title != "" {
		lastName, _ := witnessSurname(d.Name)
		parts = append(parts, fmt.Sprintf("%s %s", d.Title, lastName), "Introduced Bill")
	} else {
		for _, part := range []string{d.Name, d.Role, d.Organization, d.Position} {
			if part != "" {
				parts = append(parts, part)
			}
		}
	}
	if d.Number != "" {
		parts = append(parts, "Testimony#"+d.Number)
	}
	return strings.Join(parts, " - "), nil
}

func (c *testimonyConstructor) Procedural(p models.Path, rc Context) (string, error) {
	d := testimonyDetails(p)
	if d == nil {
		return rawJoin(p), nil
	}
	clock := ProceduralClock(rc.Time)
	if d.IntroducingBill && d.Title != "" {
		lastName, _ := witnessSurname(d.Name)
		return fmt.Sprintf("%s - %s %s introduced the bill", clock, d.Title, lastName), nil
	}
	verb := "testified"
	if d.Format == models.FormatWritten {
		verb = "submitted testimony"
	}
	return fmt.Sprintf("%s - %s %s %s", clock, d.Name, verb, positionPhrase(d.Position)), nil
}

// testimonyDetails finds the structured testimony fields on a path.
func testimonyDetails(p models.Path) *models.TestimonyDetails {
	for i := range p {
		if p[i].Details != nil {
			return p[i].Details
		}
	}
	return nil
}

// positionPhrase maps a testimony position onto its procedural phrasing.
func positionPhrase(position string) string {
	switch position {
	case models.PositionFavor:
		return "in favor"
	case models.PositionOpposition:
		return "in opposition"
	case models.PositionNeutral:
		return "as neutral"
	}
	return strings.ToLower(position)
}

// witnessSurname splits a witness name into surname and first initial.
func witnessSurname(name string) (lastName, firstInitial string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	lastName = parts[len(parts)-1]
	if len(parts) > 1 {
		firstInitial = parts[0][:1]
	}
	return lastName, firstInitial
}
