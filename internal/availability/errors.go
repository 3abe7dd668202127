package availability

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRange      = errors.New("check-out must be after check-in")
	ErrConflictDetected  = errors.New("stay overlaps existing bookings")
	ErrGroupConflict     = errors.New("one or more rooms in the group are unavailable")
	ErrIllegalTransition = errors.New("illegal booking status transition")
	ErrUnknownStatus     = errors.New("unknown status")
	ErrNoRooms           = errors.New("at least one room is required")
	ErrDuplicateRoom     = errors.New("room requested more than once")
)

// ConflictError lists every booking that blocks a stay on one room.
type ConflictError struct {
	RoomID    string
	Conflicts []Booking
}

func (e *ConflictError) Error() string {
	ids := make([]string, len(e.Conflicts))
	for i, booking := range e.Conflicts {
		ids[i] = booking.ID
	}

	return fmt.Sprintf("room %s: %s (%s)", e.RoomID, ErrConflictDetected, strings.Join(ids, ", "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflictDetected
}

// GroupConflictError carries the result of every room in a rejected group request.
type GroupConflictError struct {
	Results []RoomResult
}

func (e *GroupConflictError) Error() string {
	rooms := e.ConflictingRooms()

	return fmt.Sprintf("%s: %s", ErrGroupConflict, strings.Join(rooms, ", "))
}

func (e *GroupConflictError) Is(target error) bool {
	return target == ErrGroupConflict
}

// ConflictingRooms returns the ids of the rooms that blocked the group.
func (e *GroupConflictError) ConflictingRooms() []string {
	rooms := []string{}

	for _, result := range e.Results {
		if !result.Available() {
			rooms = append(rooms, result.RoomID)
		}
	}

	return rooms
}

type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrIllegalTransition, e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}
