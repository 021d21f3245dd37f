// Package models defines testimony sub-flow structures.
package models

import "errors"

// TestimonyState tracks where a testimony entry sits in its sub-flow.
type TestimonyState string

const (
	// TestimonyCollecting means the entry form is still open.
	TestimonyCollecting TestimonyState = "COLLECTING"
	// TestimonySubmitted means tech text is computable but confirmations may follow.
	TestimonySubmitted TestimonyState = "SUBMITTED"
	// TestimonyAwaitingMember means the "is this a senator or representative?" prompt is pending.
	TestimonyAwaitingMember TestimonyState = "AWAITING_MEMBER_CONFIRMATION"
	// TestimonyAwaitingBill means the "are they introducing a bill?" prompt is pending.
	TestimonyAwaitingBill TestimonyState = "AWAITING_BILL_CONFIRMATION"
	// TestimonyFinalized means the entry is complete.
	TestimonyFinalized TestimonyState = "FINALIZED"
)

// Testimony submission formats.
const (
	FormatInPerson = "In-Person"
	FormatOnline   = "Online"
	FormatWritten  = "Written"
)

// Testimony positions.
const (
	PositionFavor      = "In Favor"
	PositionOpposition = "In Opposition"
	PositionNeutral    = "Neutral"
)

// Error variables for testimony validation.
var (
	ErrInvalidPosition = errors.New("invalid testimony position")
	ErrInvalidFormat   = errors.New("invalid testimony format")
)

// TestimonyDetails carries the structured fields of a testimony entry,
// separate from the serialized display value stored on the path entry.
type TestimonyDetails struct {
	Name         string `json:"name,omitempty"`
	Role         string `json:"role,omitempty"`
	Organization string `json:"organization,omitempty"`
	Position     string `json:"position"`
	Format       string `json:"format,omitempty"`
	Link         string `json:"link,omitempty"`
	Number       string `json:"number,omitempty"`

	// Derived during the confirmation chain.
	Title    string `json:"title,omitempty"`
	MemberNo string `json:"memberNo,omitempty"`

	// One-shot latch: once the member prompt has been asked for this entry it
	// is never asked again, even across edits, unless explicitly reset.
	PromptedForMember bool `json:"promptedForSenatorRepresentative,omitempty"`
	// Set only after both confirmations answered yes.
	IntroducingBill bool `json:"introducingBill,omitempty"`
}

// Validate checks the locally required fields of a testimony submission.
func (d *TestimonyDetails) Validate() error {
	switch d.Position {
	case "":
		return ErrMissingPosition
	case PositionFavor, PositionOpposition, PositionNeutral:
	default:
		return ErrInvalidPosition
	}
	switch d.Format {
	case "", FormatInPerson, FormatOnline, FormatWritten:
	default:
		return ErrInvalidFormat
	}
	return nil
}

// QuestionKind distinguishes the pending confirmation prompts.
type QuestionKind string

const (
	// QuestionMember asks whether the person is a sitting senator or representative.
	QuestionMember QuestionKind = "member"
	// QuestionBill asks whether the member is introducing a bill.
	QuestionBill QuestionKind = "bill"
)

// Question is a pending yes/no confirmation the caller must answer before the
// testimony entry can finalize. The engine never times these out.
type Question struct {
	Kind QuestionKind `json:"kind"`
	Text string       `json:"text"`
}
