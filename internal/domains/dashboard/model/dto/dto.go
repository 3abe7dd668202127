package dto

import (
	"innkeep/internal/availability"
	availabilityDto "innkeep/internal/domains/availability/model/dto"
	bookingModel "innkeep/internal/domains/booking/model"
)

type SummaryQuery struct {
	PropertyID string `json:"property_id" validate:"required,uuid"`
	Day        string `json:"day"         validate:"omitempty,day"`
}

type SummaryResponse struct {
	PropertyID    string                            `json:"property_id"`
	Day           string                            `json:"day"`
	TotalRooms    int                               `json:"total_rooms"`
	RoomsByStatus map[string]int                    `json:"rooms_by_status"`
	Occupancy     availabilityDto.OccupancyResponse `json:"occupancy"`
	Arrivals      int                               `json:"arrivals"`
	Departures    int                               `json:"departures"`
	InHouse       int                               `json:"in_house"`
	PendingHolds  int                               `json:"pending_holds"`
}

func (r *SummaryResponse) FromRoomCounts(counts map[availability.RoomStatus]int) {
	r.TotalRooms = 0
	r.RoomsByStatus = make(map[string]int, len(counts))

	for status, total := range counts {
		r.RoomsByStatus[string(status)] = total
		r.TotalRooms += total
	}
}

func (r *SummaryResponse) FromDayCounts(counts bookingModel.DayCounts) {
	r.Arrivals = counts.Arrivals
	r.Departures = counts.Departures
	r.InHouse = counts.InHouse
	r.PendingHolds = counts.PendingHolds
}
