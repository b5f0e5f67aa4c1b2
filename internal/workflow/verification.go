package workflow

import (
	"fmt"
	"strings"
	"time"

	"rentease_backend/internal/models"

	"github.com/google/uuid"
)

type VerificationAction string

const (
	VerificationSubmit  VerificationAction = "submit"
	VerificationApprove VerificationAction = "approve"
	VerificationReject  VerificationAction = "reject"
	VerificationSuspend VerificationAction = "suspend"
	VerificationLift    VerificationAction = "lift_suspension"
	VerificationRevoke  VerificationAction = "revoke"
)

// verificationState folds the suspension flag into the status so the table can
// distinguish approved from approved-and-suspended.
type verificationState string

const (
	stateNone      verificationState = "none"
	statePending   verificationState = "pending"
	stateApproved  verificationState = "approved"
	stateSuspended verificationState = "suspended"
	stateRejected  verificationState = "rejected"
)

type verificationKey struct {
	from   verificationState
	action VerificationAction
}

var verificationTransitions = map[verificationKey]verificationState{
	{stateNone, VerificationSubmit}:      statePending,
	{statePending, VerificationSubmit}:   statePending,
	{stateRejected, VerificationSubmit}:  statePending,
	{statePending, VerificationApprove}:  stateApproved,
	{statePending, VerificationReject}:   stateRejected,
	{stateApproved, VerificationSuspend}: stateSuspended,
	{stateSuspended, VerificationLift}:   stateApproved,
	{stateApproved, VerificationRevoke}:  stateRejected,
	{stateSuspended, VerificationRevoke}: stateRejected,
}

func stateOf(v *models.AgentVerification) verificationState {
	if v == nil || v.Status == "" {
		return stateNone
	}
	switch v.Status {
	case models.VerificationStatusPending:
		return statePending
	case models.VerificationStatusRejected:
		return stateRejected
	case models.VerificationStatusApproved:
		if v.IsSuspended {
			return stateSuspended
		}
		return stateApproved
	}
	return verificationState(v.Status)
}

// StateOf is the externally visible state name: none, pending, approved,
// suspended or rejected.
func StateOf(v *models.AgentVerification) string {
	return string(stateOf(v))
}

func checkVerification(v *models.AgentVerification, action VerificationAction) error {
	from := stateOf(v)
	if _, ok := verificationTransitions[verificationKey{from, action}]; !ok {
		return &TransitionError{Entity: "verification", From: string(from), Action: string(action)}
	}
	return nil
}

// CanVerification reports whether action is allowed from the current state.
func CanVerification(v *models.AgentVerification, action VerificationAction) bool {
	return checkVerification(v, action) == nil
}

// NewAgentCode generates the public agent identifier assigned on approval.
func NewAgentCode() string {
	return "AGT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Submit records new documents. Allowed for a first submission, a pending
// re-submission or after rejection.
func Submit(v *models.AgentVerification, documentURL string) error {
	if err := checkVerification(v, VerificationSubmit); err != nil {
		return err
	}
	v.Status = models.VerificationStatusPending
	v.DocumentURL = documentURL
	v.RejectionReason = ""
	v.AgentID = nil
	return nil
}

// Approve moves pending to approved and assigns agentCode.
func Approve(v *models.AgentVerification, adminID, agentCode string, now time.Time) error {
	if err := checkVerification(v, VerificationApprove); err != nil {
		return err
	}
	if agentCode == "" {
		return fmt.Errorf("agent code is required")
	}
	v.Status = models.VerificationStatusApproved
	v.AgentID = &agentCode
	v.VerifiedAt = &now
	v.VerifiedBy = &adminID
	v.RejectionReason = ""
	clearSuspension(v)
	return nil
}

// Reject moves pending to rejected.
func Reject(v *models.AgentVerification, adminID, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	if err := checkVerification(v, VerificationReject); err != nil {
		return err
	}
	v.Status = models.VerificationStatusRejected
	v.RejectionReason = reason
	v.AgentID = nil
	v.VerifiedAt = &now
	v.VerifiedBy = &adminID
	return nil
}

// Suspend sets every suspension field at once. The reason is checked before
// the state so a blank reason is always reported as such. A timed suspension
// that has already run out counts as approved and is replaced.
func Suspend(v *models.AgentVerification, adminID string, d SuspensionDuration, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	if !d.Valid() {
		return fmt.Errorf("unknown suspension duration %q", d)
	}
	if !(stateOf(v) == stateSuspended && SuspensionExpired(v, now)) {
		if err := checkVerification(v, VerificationSuspend); err != nil {
			return err
		}
	}
	until, err := d.Until(now)
	if err != nil {
		return err
	}
	v.IsSuspended = true
	v.SuspendedAt = &now
	v.SuspendedUntil = until
	v.SuspensionReason = reason
	v.SuspendedBy = &adminID
	return nil
}

// LiftSuspension clears every suspension field at once.
func LiftSuspension(v *models.AgentVerification) error {
	if err := checkVerification(v, VerificationLift); err != nil {
		return err
	}
	clearSuspension(v)
	return nil
}

// Revoke withdraws an approval: status becomes rejected, the agent code and
// any suspension are cleared.
func Revoke(v *models.AgentVerification, adminID, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	if err := checkVerification(v, VerificationRevoke); err != nil {
		return err
	}
	v.Status = models.VerificationStatusRejected
	v.AgentID = nil
	v.RejectionReason = reason
	v.RevokedAt = &now
	v.RevokedBy = &adminID
	v.RevocationReason = reason
	clearSuspension(v)
	return nil
}

func clearSuspension(v *models.AgentVerification) {
	v.IsSuspended = false
	v.SuspendedAt = nil
	v.SuspendedUntil = nil
	v.SuspensionReason = ""
	v.SuspendedBy = nil
}

// SuspensionActive - suspended and not yet past suspended_until.
func SuspensionActive(v *models.AgentVerification, now time.Time) bool {
	if v == nil || !v.IsSuspended {
		return false
	}
	if v.SuspendedUntil == nil {
		return true
	}
	return now.Before(*v.SuspendedUntil)
}

// SuspensionExpired - the flag is still set but the timed suspension is over.
func SuspensionExpired(v *models.AgentVerification, now time.Time) bool {
	return v != nil && v.IsSuspended && v.SuspendedUntil != nil && !now.Before(*v.SuspendedUntil)
}

// CanActAsAgent - approved and not under an active suspension.
func CanActAsAgent(v *models.AgentVerification, now time.Time) bool {
	return v != nil && v.Status == models.VerificationStatusApproved && !SuspensionActive(v, now)
}

// CheckInvariants validates a verification row.
func CheckInvariants(v *models.AgentVerification) error {
	approved := v.Status == models.VerificationStatusApproved
	hasCode := v.AgentID != nil && *v.AgentID != ""
	if approved != hasCode {
		return fmt.Errorf("agent_id must be set iff status is approved (status=%s)", v.Status)
	}
	if v.IsSuspended {
		if !approved {
			return fmt.Errorf("only approved verifications can be suspended")
		}
		if v.SuspendedAt == nil || v.SuspendedBy == nil || v.SuspensionReason == "" {
			return fmt.Errorf("suspension fields must be set together")
		}
	} else if v.SuspendedAt != nil || v.SuspendedUntil != nil || v.SuspendedBy != nil || v.SuspensionReason != "" {
		return fmt.Errorf("suspension fields must be cleared together")
	}
	return nil
}
