package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	otelMocks "innkeep/infras/otel/mocks"
	accessMocks "innkeep/internal/access/mocks"
	"innkeep/internal/availability"
	bookingMocks "innkeep/internal/domains/booking/mocks"
	bookingModel "innkeep/internal/domains/booking/model"
	"innkeep/internal/domains/dashboard/model/dto"
	"innkeep/internal/domains/dashboard/service"
	roomMocks "innkeep/internal/domains/room/mocks"
	roomModel "innkeep/internal/domains/room/model"
	"innkeep/shared/cache"
	cacheMocks "innkeep/shared/cache/mocks"
	"innkeep/shared/timezone"
)

func TestSummary(t *testing.T) {
	now := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	newService := func(t *testing.T) (*roomMocks.MockRoom, *bookingMocks.MockBooking, *cacheMocks.MockRedisCache, service.Dashboard) {
		t.Helper()

		ctrl := gomock.NewController(t)
		rooms := roomMocks.NewMockRoom(ctrl)
		bookings := bookingMocks.NewMockBooking(ctrl)
		guard := accessMocks.NewMockGuard(ctrl)
		redis := cacheMocks.NewMockRedisCache(ctrl)

		guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		redis.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), 15).Return(nil).AnyTimes()

		cfg := &config.Config{}
		cfg.Cache.DashboardTTL = 15

		return rooms, bookings, redis, service.New(rooms, bookings, guard, cfg, redis, otelMocks.NewOtel(), timezone.Fixed(now))
	}

	t.Run("aggregates rooms and bookings", func(t *testing.T) {
		rooms, bookings, redis, svc := newService(t)
		room1, room2 := "r1", "r2"

		redis.EXPECT().Get(gomock.Any(), "dashboard:summary:p1:2026-03-02", gomock.Any()).Return(cache.Nil)
		rooms.EXPECT().CountByStatus(gomock.Any(), "p1").Return(map[availability.RoomStatus]int{
			availability.RoomAvailable:    2,
			availability.RoomOccupied:     1,
			availability.RoomDirty:        1,
			availability.RoomOutOfService: 0,
		}, nil)
		bookings.EXPECT().DayCounts(gomock.Any(), "p1", day, now).
			Return(bookingModel.DayCounts{Arrivals: 2, Departures: 1, InHouse: 1, PendingHolds: 3}, nil)
		rooms.EXPECT().ListByProperty(gomock.Any(), "p1").Return([]roomModel.Room{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}, {ID: "r4"}}, nil)
		bookings.EXPECT().ListInWindow(gomock.Any(), "p1", day, day.AddDate(0, 0, 1)).Return([]bookingModel.Booking{
			{ID: "b1", RoomID: &room1, CheckIn: day.AddDate(0, 0, -1), CheckOut: day.AddDate(0, 0, 2), Status: availability.StatusCheckedIn},
			{ID: "b2", RoomID: &room2, CheckIn: day, CheckOut: day.AddDate(0, 0, 1), Status: availability.StatusReserved},
		}, nil)

		res, err := svc.Summary(context.Background(), dto.SummaryQuery{PropertyID: "p1"})
		require.NoError(t, err)
		assert.Equal(t, "2026-03-02", res.Day)
		assert.Equal(t, 4, res.TotalRooms)
		assert.Equal(t, 1, res.RoomsByStatus["dirty"])
		assert.Equal(t, 0, res.RoomsByStatus["out_of_service"])
		assert.Equal(t, 2, res.Occupancy.Occupied)
		assert.InDelta(t, 0.5, res.Occupancy.Rate, 1e-9)
		assert.Equal(t, 3, res.PendingHolds)
	})

	t.Run("served from cache", func(t *testing.T) {
		_, _, redis, svc := newService(t)

		redis.EXPECT().Get(gomock.Any(), "dashboard:summary:p1:2026-02-01", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res, _ := value.(*dto.SummaryResponse)
				res.TotalRooms = 9

				return nil
			})

		res, err := svc.Summary(context.Background(), dto.SummaryQuery{PropertyID: "p1", Day: "2026-02-01"})
		require.NoError(t, err)
		assert.Equal(t, 9, res.TotalRooms)
	})

	t.Run("room count failure", func(t *testing.T) {
		rooms, _, redis, svc := newService(t)

		redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		rooms.EXPECT().CountByStatus(gomock.Any(), "p1").Return(nil, errors.New("db down"))

		_, err := svc.Summary(context.Background(), dto.SummaryQuery{PropertyID: "p1", Day: "2026-02-01"})
		require.Error(t, err)
	})
}
