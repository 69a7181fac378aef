package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	requesterUserID = int64(10)
	providerUserID  = int64(20)
	strangerUserID  = int64(30)
)

var allActions = []Action{
	ActionConfirm, ActionStart, ActionComplete, ActionCancel, ActionReschedule, ActionReview,
}

func TestNextStatus_HappyPath(t *testing.T) {
	status := StatusPending
	for _, step := range []struct {
		action Action
		want   BookingStatus
	}{
		{ActionConfirm, StatusConfirmed},
		{ActionStart, StatusInProgress},
		{ActionComplete, StatusCompleted},
	} {
		next, err := NextStatus(status, step.action)
		require.NoError(t, err, "action %s from %s", step.action, status)
		assert.Equal(t, step.want, next)
		status = next
	}
}

func TestNextStatus_Cancel(t *testing.T) {
	for _, from := range []BookingStatus{StatusPending, StatusConfirmed} {
		next, err := NextStatus(from, ActionCancel)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, next)
	}

	for _, from := range []BookingStatus{StatusInProgress, StatusCompleted, StatusCancelled} {
		_, err := NextStatus(from, ActionCancel)
		assert.ErrorIs(t, err, ErrInvalidTransition, "cancel from %s", from)
	}
}

func TestNextStatus_RescheduleResetsToPending(t *testing.T) {
	for _, from := range []BookingStatus{StatusPending, StatusConfirmed} {
		next, err := NextStatus(from, ActionReschedule)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, next)
	}

	_, err := NextStatus(StatusInProgress, ActionReschedule)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestNextStatus_TerminalStatesAreTerminal(t *testing.T) {
	for _, terminal := range TerminalStatuses {
		for _, action := range allActions {
			next, err := NextStatus(terminal, action)
			if err != nil {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				continue
			}
			// единственное допустимое действие - отзыв, и он не меняет статус
			assert.Equal(t, ActionReview, action)
			assert.Equal(t, terminal, next)
		}
	}
}

func TestNextStatus_ConfirmTwiceIsBadRequest(t *testing.T) {
	_, err := NextStatus(StatusConfirmed, ActionConfirm)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestCanPerform(t *testing.T) {
	b := &Booking{RequesterID: requesterUserID, Status: StatusPending}
	requester := Actor{UserID: requesterUserID, Role: RoleUser}
	provider := Actor{UserID: providerUserID, Role: RoleUser}
	stranger := Actor{UserID: strangerUserID, Role: RoleUser}
	admin := Actor{UserID: strangerUserID, Role: RoleAdmin}

	tests := []struct {
		action    Action
		requester bool
		provider  bool
		stranger  bool
		admin     bool
	}{
		{ActionView, true, true, false, true},
		{ActionConfirm, false, true, false, true},
		{ActionStart, false, true, false, true},
		{ActionComplete, false, true, false, true},
		{ActionCancel, true, true, false, true},
		{ActionReschedule, true, true, false, true},
		{ActionReview, true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.requester, CanPerform(requester, b, providerUserID, tt.action))
			assert.Equal(t, tt.provider, CanPerform(provider, b, providerUserID, tt.action))
			assert.Equal(t, tt.stranger, CanPerform(stranger, b, providerUserID, tt.action))
			assert.Equal(t, tt.admin, CanPerform(admin, b, providerUserID, tt.action))
		})
	}
}

func TestCanTransition_ForbiddenBeforeStatusCheck(t *testing.T) {
	b := &Booking{RequesterID: requesterUserID, Status: StatusCompleted}

	_, err := CanTransition(Actor{UserID: strangerUserID}, b, providerUserID, ActionConfirm)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = CanTransition(Actor{UserID: providerUserID}, b, providerUserID, ActionConfirm)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
