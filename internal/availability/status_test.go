package availability_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/internal/availability"
)

func TestCanTransition(t *testing.T) {
	allowed := map[availability.Status][]availability.Status{
		availability.StatusTentative:  {availability.StatusReserved, availability.StatusCancelled},
		availability.StatusReserved:   {availability.StatusCheckedIn, availability.StatusCancelled},
		availability.StatusCheckedIn:  {availability.StatusCheckedOut},
		availability.StatusCheckedOut: {},
		availability.StatusCancelled:  {},
	}

	for _, from := range availability.Statuses() {
		for _, to := range availability.Statuses() {
			expected := from == to || contains(allowed[from], to)

			assert.Equal(t, expected, availability.CanTransition(from, to), "%s -> %s", from, to)
		}
	}

	assert.False(t, availability.CanTransition("bogus", availability.StatusReserved))
	assert.False(t, availability.CanTransition(availability.StatusTentative, "bogus"))
}

func contains(list []availability.Status, status availability.Status) bool {
	for _, s := range list {
		if s == status {
			return true
		}
	}

	return false
}

func TestTransition(t *testing.T) {
	next, err := availability.Transition(availability.StatusReserved, availability.StatusCheckedIn)
	require.NoError(t, err)
	assert.Equal(t, availability.StatusCheckedIn, next)

	next, err = availability.Transition(availability.StatusCheckedOut, availability.StatusTentative)
	require.ErrorIs(t, err, availability.ErrIllegalTransition)
	assert.Equal(t, availability.StatusCheckedOut, next)

	var transitionErr *availability.TransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, availability.StatusCheckedOut, transitionErr.From)
	assert.Equal(t, availability.StatusTentative, transitionErr.To)
}

func TestTerminalAndBlocking(t *testing.T) {
	assert.True(t, availability.StatusCheckedOut.Terminal())
	assert.True(t, availability.StatusCancelled.Terminal())
	assert.False(t, availability.StatusTentative.Terminal())

	assert.False(t, availability.StatusCancelled.Blocking())
	assert.True(t, availability.StatusCheckedOut.Blocking())
	assert.False(t, availability.Status("bogus").Blocking())
}

func TestParseStatus(t *testing.T) {
	status, err := availability.ParseStatus("checked_in")
	require.NoError(t, err)
	assert.Equal(t, availability.StatusCheckedIn, status)

	_, err = availability.ParseStatus("archived")
	assert.ErrorIs(t, err, availability.ErrUnknownStatus)

	roomStatus, err := availability.ParseRoomStatus("dirty")
	require.NoError(t, err)
	assert.Equal(t, availability.RoomDirty, roomStatus)

	_, err = availability.ParseRoomStatus("flooded")
	assert.ErrorIs(t, err, availability.ErrUnknownStatus)
}
