package availability

import "fmt"

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusTentative  Status = "tentative"
	StatusReserved   Status = "reserved"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
)

// RoomStatus is the housekeeping state of a room.
type RoomStatus string

const (
	RoomAvailable    RoomStatus = "available"
	RoomOccupied     RoomStatus = "occupied"
	RoomDirty        RoomStatus = "dirty"
	RoomOutOfService RoomStatus = "out_of_service"
)

var transitions = map[Status][]Status{
	StatusTentative:  {StatusReserved, StatusCancelled},
	StatusReserved:   {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:  {StatusCheckedOut},
	StatusCheckedOut: {},
	StatusCancelled:  {},
}

// Statuses lists every booking status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusTentative, StatusReserved, StatusCheckedIn, StatusCheckedOut, StatusCancelled}
}

// RoomStatuses lists every housekeeping status.
func RoomStatuses() []RoomStatus {
	return []RoomStatus{RoomAvailable, RoomOccupied, RoomDirty, RoomOutOfService}
}

func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
	}

	return status, nil
}

func ParseRoomStatus(value string) (RoomStatus, error) {
	for _, status := range RoomStatuses() {
		if string(status) == value {
			return status, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
}

func (s Status) Valid() bool {
	_, ok := transitions[s]

	return ok
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	next, ok := transitions[s]

	return ok && len(next) == 0
}

// Blocking reports whether a booking in this status holds its room.
func (s Status) Blocking() bool {
	return s.Valid() && s != StatusCancelled
}

// CanTransition reports whether a booking may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}

	if from == to {
		return true
	}

	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// Transition validates a status change and returns the new status.
func Transition(from, to Status) (Status, error) {
	if !CanTransition(from, to) {
		return from, &TransitionError{From: from, To: to}
	}

	return to, nil
}
