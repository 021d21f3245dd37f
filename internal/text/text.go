// Package text renders statement paths into the two clerk output registers.
//
// Every statement type registers a Constructor; rendering dispatches on the
// path's type tag. Constructors are pure: re-rendering an unchanged path
// always yields the same strings.
package text

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gavelworks/clerkpipe/internal/models"
)

// Context carries the ambient inputs a constructor may need beyond the path
// itself: the active committee (for chamber defaults), the statement time,
// and the female-member lookup for title adjustment.
type Context struct {
	Committee string
	Time      time.Time
	IsFemale  func(lastName string) bool
}

// female is a nil-safe wrapper around the lookup.
func (rc Context) female(lastName string) bool {
	return rc.IsFemale != nil && rc.IsFemale(lastName)
}

// Constructor maps a path to one statement type's two output registers.
type Constructor interface {
	// Tech renders the terse transcript register.
	Tech(p models.Path, rc Context) (string, error)
	// Procedural renders the fuller sentence register.
	Procedural(p models.Path, rc Context) (string, error)
}

var registry = make(map[models.StatementType]Constructor)

// Register associates a statement type with a Constructor implementation.
func Register(st models.StatementType, c Constructor) {
	registry[st] = c
}

// Get retrieves the Constructor for a statement type.
func Get(st models.StatementType) (Constructor, bool) {
	c, ok := registry[st]
	return c, ok
}

// Tech renders the tech clerk transcript for a path. Paths with an
// unrecognized type tag fall back to joining every entry's raw value.
func Tech(p models.Path, rc Context) (string, error) {
	if c, ok := Get(p.Type()); ok {
		out, err := c.Tech(p, rc)
		if err != nil {
			slog.Error("Tech text constructor error", "type", p.Type(), "error", err)
		}
		return out, err
	}
	return rawJoin(p), nil
}

// Procedural renders the procedural clerk sentence for a path.
func Procedural(p models.Path, rc Context) (string, error) {
	if c, ok := Get(p.Type()); ok {
		out, err := c.Procedural(p, rc)
		if err != nil {
			slog.Error("Procedural text constructor error", "type", p.Type(), "error", err)
		}
		return out, err
	}
	return rawJoin(p), nil
}

// rawJoin is the fallback rendering for unknown type tags.
func rawJoin(p models.Path) string {
	parts := make([]string, 0, len(p))
	for _, entry := range p {
		if entry.Display != "" {
			parts = append(parts, entry.Display)
			continue
		}
		parts = append(parts, entry.Value)
	}
	return strings.Join(parts, " - ")
}

// Register default constructors
func init() {
	Register(models.StatementMemberAction, &memberActionConstructor{})
	Register(models.StatementVoteAction, &voteActionConstructor{})
	Register(models.StatementVoiceVote, &voiceVoteConstructor{})
	Register(models.StatementMotionFailed, &motionFailedConstructor{})
	Register(models.StatementMeetingAction, &meetingActionConstructor{})
	Register(models.StatementIntroducedBill, &introducedBillConstructor{})
	Register(models.StatementTestimony, &testimonyConstructor{})
	Register(models.StatementCustom, &customConstructor{})
}
