// Package models defines flow identifier types to avoid circular imports.
package models

// FlowName identifies a flow definition within the schema.
type FlowName string

// StepID identifies a single decision point within a flow.
type StepID string

// SourceName identifies a dynamic option provider for a step.
type SourceName string

// Dynamic option source constants.
const (
	SourceCommitteeMembers SourceName = "committeeMembers"
	SourceOtherCommittees  SourceName = "otherCommittees"
	SourceAllMembers       SourceName = "allMembers"
	SourceMotionTypes      SourceName = "suggestedMotionTypes"
	SourceFailureReasons   SourceName = "suggestedFailureReasons"
)

// Step identifiers with engine- or resolver-level behavior attached.
const (
	StepAction            StepID = "action"
	StepMovedDetail       StepID = "movedDetail"
	StepMotionType        StepID = "motionType"
	StepMotionModifiers   StepID = "motionModifiers"
	StepAfterAmended      StepID = "afterAmended"
	StepRereferCommittee  StepID = "rereferCommittee"
	StepVoteModule        StepID = "voteModule"
	StepCarryBillPrompt   StepID = "carryBillPrompt"
	StepBillCarrier       StepID = "billCarrierOptional"
	StepVoiceSubject      StepID = "voiceSubject"
	StepVoiceOutcome      StepID = "voiceOutcome"
	StepFailedReason      StepID = "failedReason"
	StepByMember          StepID = "byMember"
	StepIntroducer        StepID = "introducer"
)

// Option strings the engine and resolver key behavior on.
const (
	OptionTakeTheVote    = "Take the Vote"
	OptionAsAmended      = "as Amended"
	OptionAndRereferred  = "and Rereferred"
	OptionCarriedTheBill = "X Carried the Bill"
	OptionNoCarrier      = "No Carrier"
	OptionMoved          = "Moved"
	OptionSeconded       = "Seconded"
	OptionWithdrew       = "Withdrew"
	OptionReconsider     = "Reconsider"
	OptionPassed         = "Passed"
	OptionFailed         = "Failed"
	OptionAmendment      = "Amendment"
)

// Branch mapping key that catches any value without its own branch.
const DefaultBranchKey = "default"
