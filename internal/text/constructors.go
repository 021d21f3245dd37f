// Package text implements the per-statement-type constructors.
package text

import (
	"fmt"
	"strings"

	"github.com/gavelworks/clerkpipe/internal/models"
)

// pathModifiers extracts the amendment flag and rereferral target recorded on
// a path's modifier steps.
func pathModifiers(p models.Path) (amended bool, rerefer string) {
	if entry := p.Find(models.StepMotionModifiers); entry != nil && entry.Value == models.OptionAsAmended {
		amended = true
	}
	if entry := p.Find(models.StepRereferCommittee); entry != nil {
		rerefer = entry.Value
	}
	return amended, rerefer
}

// pathTally extracts a recorded vote module result, if any.
func pathTally(p models.Path) (models.VoteTally, bool) {
	entry := p.Find(models.StepVoteModule)
	if entry == nil {
		return models.VoteTally{}, false
	}
	tally, err := models.ParseVoteTally(entry.Value)
	if err != nil {
		return models.VoteTally{}, false
	}
	return tally, true
}

// pathCarrier extracts the bill carrier, present only when the carry prompt
// was answered with exactly the carried-the-bill option.
func pathCarrier(p models.Path) (string, bool) {
	prompt := p.Find(models.StepCarryBillPrompt)
	carrier := p.Find(models.StepBillCarrier)
	if prompt == nil || carrier == nil || prompt.Value != models.OptionCarriedTheBill {
		return "", false
	}
	return carrier.Value, true
}

// memberActionConstructor renders plain member actions (Moved/Seconded/Withdrew).
type memberActionConstructor struct{}

func (c *memberActionConstructor) Tech(p models.Path, rc Context) (string, error) {
	if len(p) < 2 {
		return rawJoin(p), nil
	}
	title, lastName := MemberTitle(p[0].Value, rc)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s", title, lastName, strings.ToLower(p[1].Value))
	if detail := p.Find(models.StepMovedDetail); detail != nil {
		sb.WriteString(" " + detail.Value)
	}
	amended, rerefer := pathModifiers(p)
	if amended {
		sb.WriteString(", as Amended")
	}
	if rerefer != "" {
		sb.WriteString(", and Rereferred to " + shortCommitteeName(rerefer))
	}
	if tally, ok := pathTally(p); ok {
		fmt.Fprintf(&sb, " - Motion %s %s", tally.Outcome(), tally.Display())
	}
	return sb.String(), nil
}

func (c *memberActionConstructor) Procedural(p models.Path, rc Context) (string, error) {
	if len(p) < 2 {
		return rawJoin(p), nil
	}
	title, lastName := MemberTitle(p[0].Value, rc)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s", title, lastName, strings.ToLower(p[1].Value))
	if detail := p.Find(models.StepMovedDetail); detail != nil {
		if models.IsMotionType(detail.Value) {
			sb.WriteString(" " + motionPhrase(detail.Value))
		} else {
			sb.WriteString(" " + detail.Value)
		}
	}
	amended, rerefer := pathModifiers(p)
	if amended {
		sb.WriteString(" as amended")
	}
	if rerefer != "" {
		sb.WriteString(" and rereferred to " + shortCommitteeName(rerefer))
	}
	if tally, ok := pathTally(p); ok {
		fmt.Fprintf(&sb, " - the motion %s %s", strings.ToLower(tally.Outcome()), tally.Display())
	}
	return sb.String(), nil
}

// voteActionConstructor renders roll call votes.
type voteActionConstructor struct{}

func (c *voteActionConstructor) Tech(p models.Path, rc Context) (string, error) {
	motion := p.Find(models.StepMotionType)
	if motion == nil {
		return rawJoin(p), nil
	}
	var sb strings.Builder
	sb.WriteString("Roll Call Vote on " + motion.Value)
	amended, rerefer := pathModifiers(p)
	if amended {
		sb.WriteString(" as Amended")
	}
	if rerefer != "" {
		sb.WriteString(" and Rereferred to " + shortCommitteeName(rerefer))
	}
	if tally, ok := pathTally(p); ok {
		fmt.Fprintf(&sb, " - Motion %s %s", tally.Outcome(), tally.Display())
	}
	if carrier, ok := pathCarrier(p); ok {
		title, lastName := MemberTitle(carrier, rc)
		fmt.Fprintf(&sb, " - %s %s Carried the Bill", title, lastName)
	}
	return sb.String(), nil
}

func (c *voteActionConstructor) Procedural(p models.Path, rc Context) (string, error) {
	motion := p.Find(models.StepMotionType)
	if motion == nil {
		return rawJoin(p), nil
	}
	var sb strings.Builder
	phrase := motion.Value
	if models.IsMotionType(motion.Value) {
		phrase = motionPhrase(motion.Value)
	}
	sb.WriteString("A roll call vote was taken on " + phrase)
	amended, rerefer := pathModifiers(p)
	if amended {
		sb.WriteString(" as amended")
	}
	if rerefer != "" {
		sb.WriteString(" and rereferred to " + shortCommitteeName(rerefer))
	}
	if tally, ok := pathTally(p); ok {
		fmt.Fprintf(&sb, " - the motion %s %s", strings.ToLower(tally.Outcome()), tally.Display())
	}
	if carrier, ok := pathCarrier(p); ok {
		title, lastName := MemberTitle(carrier, rc)
		fmt.Fprintf(&sb, " - %s %s will carry the bill", title, lastName)
	}
	return sb.String(), nil
}

// voiceVoteConstructor renders voice votes.
type voiceVoteConstructor struct{}

func (c *voiceVoteConstructor) Tech(p models.Path, rc Context) (string, error) {
	subject := p.Find(models.StepVoiceSubject)
	outcome := p.Find(models.StepVoiceOutcome)
	if subject == nil || outcome == nil {
		return rawJoin(p), nil
	}
	return fmt.Sprintf("Voice Vote on %s - %s", subject.Value, outcome.Value), nil
}

func (c *voiceVoteConstructor) Procedural(p models.Path, rc Context) (string, error) {
	subject := p.Find(models.StepVoiceSubject)
	outcome := p.Find(models.StepVoiceOutcome)
	if subject == nil || outcome == nil {
		return rawJoin(p), nil
	}
	return fmt.Sprintf("A voice vote was taken on the %s - the motion %s",
		strings.ToLower(subject.Value), strings.ToLower(outcome.Value)), nil
}

// motionFailedConstructor renders motions that failed without a vote.
type motionFailedConstructor struct{}

func (c *motionFailedConstructor) Tech(p models.Path, rc Context) (string, error) {
	reason := p.Find(models.StepFailedReason)
	if reason == nil {
		return "Motion Failed", nil
	}
	return "Motion Failed " + reason.Value, nil
}

func (c *motionFailedConstructor) Procedural(p models.Path, rc Context) (string, error) {
	reason := p.Find(models.StepFailedReason)
	if reason == nil {
		return "The motion failed", nil
	}
	return "The motion failed " + strings.ToLower(reason.Value), nil
}

// meetingActionConstructor renders procedural meeting events.
type meetingActionConstructor struct{}

func (c *meetingActionConstructor) Tech(p models.Path, rc Context) (string, error) {
	if len(p) == 0 {
		return "", nil
	}
	out := p[0].Value
	if by := p.Find(models.StepByMember); by != nil {
		title, lastName := MemberTitle(by.Value, rc)
		out += fmt.Sprintf(" by %s %s", title, lastName)
	}
	return out, nil
}

func (c *meetingActionConstructor) Procedural(p models.Path, rc Context) (string, error) {
	if len(p) == 0 {
		return "", nil
	}
	out := fmt.Sprintf("%s at %s", p[0].Value, ProceduralClock(rc.Time))
	if by := p.Find(models.StepByMember); by != nil {
		title, lastName := MemberTitle(by.Value, rc)
		out += fmt.Sprintf(" by %s %s", title, lastName)
	}
	return out, nil
}

// introducedBillConstructor renders bill introductions.
type introducedBillConstructor struct{}

func (c *introducedBillConstructor) Tech(p models.Path, rc Context) (string, error) {
	introducer := p.Find(models.StepIntroducer)
	if introducer == nil {
		return rawJoin(p), nil
	}
	title, lastName := MemberTitle(introducer.Value, rc)
	return fmt.Sprintf("%s %s - Introduced Bill", title, lastName), nil
}

func (c *introducedBillConstructor) Procedural(p models.Path, rc Context) (string, error) {
	introducer := p.Find(models.StepIntroducer)
	if introducer == nil {
		return rawJoin(p), nil
	}
	title, lastName := MemberTitle(introducer.Value, rc)
	return fmt.Sprintf("%s %s introduced the bill", title, lastName), nil
}

// customConstructor renders externally ingested free-text statements.
type customConstructor struct{}

func (c *customConstructor) Tech(p models.Path, rc Context) (string, error) {
	return rawJoin(p), nil
}

func (c *customConstructor) Procedural(p models.Path, rc Context) (string, error) {
	return rawJoin(p), nil
}
