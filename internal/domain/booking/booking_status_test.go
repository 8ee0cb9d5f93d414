package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_LinearTransitions(t *testing.T) {
	allowed := map[BookingStatus]BookingStatus{
		StatusPending:    StatusAssigned,
		StatusAssigned:   StatusInProgress,
		StatusInProgress: StatusCompleted,
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := allowed[from] == to
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestBookingStatus_Terminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, BookingStatus("Cancelled").IsTerminal())
}

func TestParseBookingStatus(t *testing.T) {
	s, err := ParseBookingStatus("In Progress")
	assert.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseBookingStatus("in_progress")
	assert.Error(t, err)
}

func TestBookingStatus_RequiresTechnician(t *testing.T) {
	assert.False(t, StatusPending.RequiresTechnician())
	assert.True(t, StatusAssigned.RequiresTechnician())
	assert.True(t, StatusCompleted.RequiresTechnician())
}
