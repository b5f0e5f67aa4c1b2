package workflow

import (
	"testing"
	"time"

	"rentease_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func approvedVerification(t *testing.T) *models.AgentVerification {
	t.Helper()
	v := &models.AgentVerification{ProfileID: "agent-1"}
	require.NoError(t, Submit(v, "https://files/doc.zip"))
	require.NoError(t, Approve(v, "admin-1", "AGT-TEST0001", jan1))
	return v
}

func TestSuspensionDuration_Until(t *testing.T) {
	tests := []struct {
		d    SuspensionDuration
		want time.Time
	}{
		{Suspend7Days, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
		{Suspend14Days, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{Suspend30Days, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{Suspend90Days, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
		{Suspend6Months, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
		{Suspend12Months, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(string(tt.d), func(t *testing.T) {
			got, err := tt.d.Until(jan1)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "ожидали %s, получили %s", tt.want, got)
		})
	}

	got, err := SuspendIndefinite.Until(jan1)
	require.NoError(t, err)
	assert.Nil(t, got, "бессрочная приостановка не имеет даты окончания")

	_, err = SuspensionDuration("3_days").Until(jan1)
	assert.Error(t, err)
}

func TestApprove_AssignsAgentID(t *testing.T) {
	v := approvedVerification(t)

	assert.Equal(t, models.VerificationStatusApproved, v.Status)
	require.NotNil(t, v.AgentID)
	assert.Equal(t, "AGT-TEST0001", *v.AgentID)
	assert.NoError(t, CheckInvariants(v))
}

func TestApprove_OnlyFromPending(t *testing.T) {
	v := approvedVerification(t)
	err := Approve(v, "admin-1", "AGT-OTHER", jan1)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReject_ClearsAgentID(t *testing.T) {
	v := &models.AgentVerification{}
	require.NoError(t, Submit(v, "doc"))

	assert.ErrorIs(t, Reject(v, "admin-1", "  ", jan1), ErrReasonRequired)
	require.NoError(t, Reject(v, "admin-1", "blurry documents", jan1))

	assert.Equal(t, models.VerificationStatusRejected, v.Status)
	assert.Nil(t, v.AgentID)
	assert.NoError(t, CheckInvariants(v))

	require.NoError(t, Submit(v, "doc-2"), "после отказа можно подать заново")
	assert.Equal(t, models.VerificationStatusPending, v.Status)
	assert.Empty(t, v.RejectionReason)
}

func TestSuspend_SetsAllFields(t *testing.T) {
	v := approvedVerification(t)

	require.NoError(t, Suspend(v, "admin-2", Suspend7Days, "fake listings", jan1))

	assert.True(t, v.IsSuspended)
	require.NotNil(t, v.SuspendedUntil)
	assert.True(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC).Equal(*v.SuspendedUntil))
	assert.Equal(t, "fake listings", v.SuspensionReason)
	require.NotNil(t, v.SuspendedBy)
	assert.Equal(t, "admin-2", *v.SuspendedBy)
	assert.NoError(t, CheckInvariants(v))
	assert.Equal(t, "suspended", StateOf(v))
}

func TestSuspend_RequiresReasonBeforeAnything(t *testing.T) {
	v := &models.AgentVerification{Status: models.VerificationStatusPending}
	// Причина проверяется раньше статуса
	assert.ErrorIs(t, Suspend(v, "admin", Suspend7Days, "", jan1), ErrReasonRequired)
	assert.False(t, v.IsSuspended)
}

func TestSuspend_OnlyApproved(t *testing.T) {
	v := &models.AgentVerification{Status: models.VerificationStatusPending}
	assert.ErrorIs(t, Suspend(v, "admin", Suspend7Days, "reason", jan1), ErrInvalidTransition)

	v = approvedVerification(t)
	require.NoError(t, Suspend(v, "admin", Suspend7Days, "reason", jan1))
	assert.ErrorIs(t, Suspend(v, "admin", Suspend7Days, "again", jan1), ErrInvalidTransition)
}

func TestSuspend_ReplacesExpiredSuspension(t *testing.T) {
	v := approvedVerification(t)
	require.NoError(t, Suspend(v, "admin-1", Suspend7Days, "late replies", jan1))

	// срок истек, но строку еще не обработал sweep
	later := jan1.AddDate(0, 0, 10)
	require.NoError(t, Suspend(v, "admin-2", Suspend30Days, "fake listings", later))

	assert.True(t, v.IsSuspended)
	require.NotNil(t, v.SuspendedAt)
	assert.True(t, later.Equal(*v.SuspendedAt))
	require.NotNil(t, v.SuspendedUntil)
	assert.True(t, later.AddDate(0, 0, 30).Equal(*v.SuspendedUntil))
	assert.Equal(t, "fake listings", v.SuspensionReason)
	assert.Equal(t, "admin-2", *v.SuspendedBy)
	assert.NoError(t, CheckInvariants(v))

	// действующую приостановку заменить нельзя
	assert.ErrorIs(t, Suspend(v, "admin-1", Suspend7Days, "again", later), ErrInvalidTransition)
}

func TestSuspend_UnknownDuration(t *testing.T) {
	v := approvedVerification(t)
	assert.Error(t, Suspend(v, "admin", SuspensionDuration("forever"), "reason", jan1))
	assert.False(t, v.IsSuspended)
}

func TestLiftSuspension_ClearsAllFields(t *testing.T) {
	v := approvedVerification(t)
	require.NoError(t, Suspend(v, "admin", Suspend30Days, "reason", jan1))

	require.NoError(t, LiftSuspension(v))

	assert.False(t, v.IsSuspended)
	assert.Nil(t, v.SuspendedUntil)
	assert.Nil(t, v.SuspendedAt)
	assert.Nil(t, v.SuspendedBy)
	assert.Empty(t, v.SuspensionReason)
	assert.Equal(t, models.VerificationStatusApproved, v.Status)
	assert.NoError(t, CheckInvariants(v))

	assert.ErrorIs(t, LiftSuspension(v), ErrInvalidTransition, "нечего снимать")
}

func TestRevoke(t *testing.T) {
	v := approvedVerification(t)
	require.NoError(t, Suspend(v, "admin", SuspendIndefinite, "fraud", jan1))

	assert.ErrorIs(t, Revoke(v, "admin", "", jan1), ErrReasonRequired)
	require.NoError(t, Revoke(v, "admin", "fraud confirmed", jan1))

	assert.Equal(t, models.VerificationStatusRejected, v.Status)
	assert.Nil(t, v.AgentID)
	assert.False(t, v.IsSuspended)
	assert.Equal(t, "fraud confirmed", v.RevocationReason)
	assert.NoError(t, CheckInvariants(v))

	assert.ErrorIs(t, Revoke(v, "admin", "again", jan1), ErrInvalidTransition)
}

func TestSuspensionActiveAndExpired(t *testing.T) {
	v := approvedVerification(t)
	require.NoError(t, Suspend(v, "admin", Suspend7Days, "reason", jan1))

	assert.True(t, SuspensionActive(v, jan1.AddDate(0, 0, 3)))
	assert.False(t, SuspensionExpired(v, jan1.AddDate(0, 0, 3)))
	assert.False(t, CanActAsAgent(v, jan1.AddDate(0, 0, 3)))

	later := jan1.AddDate(0, 0, 8)
	assert.False(t, SuspensionActive(v, later))
	assert.True(t, SuspensionExpired(v, later))
	assert.True(t, CanActAsAgent(v, later))
}

func TestIndefiniteSuspensionNeverExpires(t *testing.T) {
	v := approvedVerification(t)
	require.NoError(t, Suspend(v, "admin", SuspendIndefinite, "reason", jan1))

	far := jan1.AddDate(50, 0, 0)
	assert.True(t, SuspensionActive(v, far))
	assert.False(t, SuspensionExpired(v, far))
	assert.NoError(t, CheckInvariants(v))
}

func TestCheckInvariants_Violations(t *testing.T) {
	code := "AGT-1"
	now := jan1

	assert.Error(t, CheckInvariants(&models.AgentVerification{Status: models.VerificationStatusPending, AgentID: &code}))
	assert.Error(t, CheckInvariants(&models.AgentVerification{Status: models.VerificationStatusApproved}))
	assert.Error(t, CheckInvariants(&models.AgentVerification{
		Status: models.VerificationStatusApproved, AgentID: &code, IsSuspended: true,
	}), "приостановка без причины")
	assert.Error(t, CheckInvariants(&models.AgentVerification{
		Status: models.VerificationStatusApproved, AgentID: &code, SuspendedAt: &now,
	}), "поля приостановки без флага")
}

func TestNewAgentCode(t *testing.T) {
	a, b := NewAgentCode(), NewAgentCode()
	assert.Regexp(t, `^AGT-[0-9A-F]{8}$`, a)
	assert.NotEqual(t, a, b)
}
