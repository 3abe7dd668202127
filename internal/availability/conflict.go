package availability

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

type conflictOptions struct {
	excluded map[string]struct{}
	now      *time.Time
}

// ConflictOption narrows the set of bookings a conflict check considers.
type ConflictOption func(*conflictOptions)

// ExcludeBooking ignores the given booking ids, typically the booking being edited.
func ExcludeBooking(ids ...string) ConflictOption {
	return func(o *conflictOptions) {
		for _, id := range ids {
			if id != "" {
				o.excluded[id] = struct{}{}
			}
		}
	}
}

// AsOf ignores tentative holds whose release deadline passed before now.
func AsOf(now time.Time) ConflictOption {
	return func(o *conflictOptions) {
		o.now = &now
	}
}

func newConflictOptions(opts []ConflictOption) conflictOptions {
	options := conflictOptions{excluded: map[string]struct{}{}}
	for _, opt := range opts {
		opt(&options)
	}

	return options
}

func (o conflictOptions) blocks(booking Booking, roomID string) bool {
	if !booking.AssignedTo(roomID) || !booking.Status.Blocking() {
		return false
	}

	if _, skip := o.excluded[booking.ID]; skip {
		return false
	}

	if o.now != nil && booking.HoldExpired(*o.now) {
		return false
	}

	return true
}

// FindConflicts returns every booking on roomID whose stay overlaps the
// candidate [checkIn, checkOut), ordered by check-in then id. An empty result
// means the room is free. Cancelled bookings never conflict.
func FindConflicts(roomID string, checkIn, checkOut time.Time, existing []Booking, opts ...ConflictOption) ([]Booking, error) {
	stay, err := ValidateCandidateStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	return findConflicts(roomID, stay, existing, newConflictOptions(opts)), nil
}

func findConflicts(roomID string, stay Stay, existing []Booking, options conflictOptions) []Booking {
	conflicts := []Booking{}

	for _, booking := range existing {
		if !options.blocks(booking, roomID) {
			continue
		}

		if booking.Stay().Overlaps(stay) {
			conflicts = append(conflicts, booking)
		}
	}

	slices.SortStableFunc(conflicts, func(a, b Booking) int {
		if c := a.CheckIn.Compare(b.CheckIn); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	return conflicts
}

// RoomResult is the outcome of the conflict check for one room of a group.
type RoomResult struct {
	RoomID    string
	Conflicts []Booking
}

func (r RoomResult) Available() bool {
	return len(r.Conflicts) == 0
}

// AssignMultiRoom checks a group stay across several rooms. It is all or
// nothing: when any room conflicts it returns a *GroupConflictError holding
// the result of every room, and the caller must not book any of them.
func AssignMultiRoom(roomIDs []string, checkIn, checkOut time.Time, existingByRoom map[string][]Booking, opts ...ConflictOption) ([]RoomResult, error) {
	stay, err := ValidateCandidateStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	if len(roomIDs) == 0 {
		return nil, ErrNoRooms
	}

	seen := make(map[string]struct{}, len(roomIDs))
	for _, roomID := range roomIDs {
		if _, dup := seen[roomID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoom, roomID)
		}

		seen[roomID] = struct{}{}
	}

	options := newConflictOptions(opts)
	results := make([]RoomResult, len(roomIDs))
	blocked := false

	for i, roomID := range roomIDs {
		results[i] = RoomResult{
			RoomID:    roomID,
			Conflicts: findConflicts(roomID, stay, existingByRoom[roomID], options),
		}

		if !results[i].Available() {
			blocked = true
		}
	}

	if blocked {
		return nil, &GroupConflictError{Results: results}
	}

	return results, nil
}

// CheckStay is FindConflicts that reports a conflict as a *ConflictError.
func CheckStay(roomID string, checkIn, checkOut time.Time, existing []Booking, opts ...ConflictOption) error {
	conflicts, err := FindConflicts(roomID, checkIn, checkOut, existing, opts...)
	if err != nil {
		return err
	}

	if len(conflicts) > 0 {
		return &ConflictError{RoomID: roomID, Conflicts: conflicts}
	}

	return nil
}
