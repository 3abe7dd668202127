package availability_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/internal/availability"
)

func roster(ids ...string) []availability.Room {
	rooms := make([]availability.Room, len(ids))
	for i, id := range ids {
		rooms[i] = availability.Room{ID: id, PropertyID: "p1", Number: id, Status: availability.RoomAvailable}
	}

	return rooms
}

func TestComputeOccupancy(t *testing.T) {
	rooms := roster("R1", "R2", "R3", "R4")
	bookings := []availability.Booking{
		booking("a", "R1", "2024-03-10", "2024-03-15", availability.StatusReserved),
		booking("b", "R2", "2024-03-12", "2024-03-13", availability.StatusCheckedIn),
		booking("c", "R3", "2024-03-12", "2024-03-13", availability.StatusTentative),
		booking("d", "R4", "2024-03-12", "2024-03-13", availability.StatusCancelled),
		booking("e", "R4", "2024-03-11", "2024-03-12", availability.StatusCheckedOut),
		booking("f", "R9", "2024-03-12", "2024-03-13", availability.StatusReserved),
		booking("g", "R1", "2024-03-12", "2024-03-13", availability.StatusReserved),
	}

	tests := []struct {
		name     string
		day      string
		occupied int
	}{
		{name: "arrival day counts", day: "2024-03-10", occupied: 1},
		{name: "busy night", day: "2024-03-12", occupied: 2},
		{name: "departure day is free", day: "2024-03-15", occupied: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occupancy := availability.ComputeOccupancy(date(tt.day), rooms, bookings)

			assert.Equal(t, date(tt.day), occupancy.Day)
			assert.Equal(t, tt.occupied, occupancy.Occupied)
			assert.Equal(t, 4, occupancy.Total)
			assert.InDelta(t, float64(tt.occupied)/4, occupancy.Rate(), 1e-9)
		})
	}
}

func TestComputeOccupancyWithoutRooms(t *testing.T) {
	occupancy := availability.ComputeOccupancy(date("2024-03-12"), nil, []availability.Booking{
		booking("a", "R1", "2024-03-10", "2024-03-15", availability.StatusReserved),
	})

	assert.Equal(t, 0, occupancy.Total)
	assert.Equal(t, 0, occupancy.Occupied)
	assert.Zero(t, occupancy.Rate())
}

func TestOccupancySeries(t *testing.T) {
	rooms := roster("R1", "R2")
	bookings := []availability.Booking{
		booking("a", "R1", "2024-03-10", "2024-03-12", availability.StatusReserved),
	}
	days := []string{"2024-03-11", "2024-03-09", "2024-03-11", "2024-03-12"}

	input := make([]time.Time, len(days))
	for i, d := range days {
		input[i] = date(d)
	}

	series := availability.OccupancySeries(input, rooms, bookings)

	collect := func() []int {
		counts := []int{}
		for occupancy := range series {
			counts = append(counts, occupancy.Occupied)
		}

		return counts
	}

	assert.Equal(t, []int{1, 0, 1, 0}, collect())
	assert.Equal(t, []int{1, 0, 1, 0}, collect(), "series can be ranged again")

	taken := 0
	for range series {
		taken++
		if taken == 2 {
			break
		}
	}

	assert.Equal(t, 2, taken)
}

func TestCalendar(t *testing.T) {
	rooms := roster("R1", "R2")
	bookings := []availability.Booking{
		booking("a", "R1", "2024-03-10", "2024-03-12", availability.StatusReserved),
		booking("x", "R2", "2024-03-10", "2024-03-12", availability.StatusCancelled),
		booking("b", "R2", "2024-03-11", "2024-03-13", availability.StatusTentative),
	}

	calendar := availability.Calendar(availability.Days(date("2024-03-10"), date("2024-03-13")), rooms, bookings)

	require.Len(t, calendar, 2)
	require.Len(t, calendar[0].Nights, 3)

	assert.Equal(t, "a", calendar[0].Nights[0].BookingID)
	assert.Equal(t, "a", calendar[0].Nights[1].BookingID)
	assert.Empty(t, calendar[0].Nights[2].BookingID)

	assert.Empty(t, calendar[1].Nights[0].BookingID)
	assert.Equal(t, "b", calendar[1].Nights[1].BookingID)
	assert.Equal(t, availability.StatusTentative, calendar[1].Nights[2].Status)
}
