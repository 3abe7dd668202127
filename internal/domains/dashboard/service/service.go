package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/internal/access"
	"innkeep/internal/availability"
	bookingModel "innkeep/internal/domains/booking/model"
	bookingRepo "innkeep/internal/domains/booking/repository"
	"innkeep/internal/domains/dashboard/model/dto"
	roomModel "innkeep/internal/domains/room/model"
	roomRepo "innkeep/internal/domains/room/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
	"innkeep/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Dashboard interface {
	Summary(ctx context.Context, req dto.SummaryQuery) (dto.SummaryResponse, error)
}

type serviceImpl struct {
	rooms    roomRepo.Room
	bookings bookingRepo.Booking
	guard    access.Guard
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	clock    timezone.Clock
}

func New(
	rooms roomRepo.Room,
	bookings bookingRepo.Booking,
	guard access.Guard,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	clock timezone.Clock,
) Dashboard {
	return &serviceImpl{
		rooms:    rooms,
		bookings: bookings,
		guard:    guard,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		clock:    clock,
	}
}

// Summary is the front-desk view of a property for one day, today by default.
func (s *serviceImpl) Summary(ctx context.Context, req dto.SummaryQuery) (res dto.SummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dashboard.Summary")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guard.Authorize(ctx, req.PropertyID); err != nil {
		return res, err //nolint:wrapcheck
	}

	day := timezone.Today(s.clock)
	if req.Day != constant.Empty {
		if day, err = shared.ParseDay(req.Day); err != nil {
			return res, failure.BadRequest(err) //nolint:wrapcheck
		}
	}

	cacheKey := shared.BuildCacheKey(constant.CacheDashboardSummary, req.PropertyID, shared.FormatDay(day))

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for dashboard summary")

		return res, nil
	}

	byStatus, err := s.rooms.CountByStatus(ctx, req.PropertyID)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms by status")

		return res, fmt.Errorf("failed to count rooms by status: %w", err)
	}

	counts, err := s.bookings.DayCounts(ctx, req.PropertyID, day, s.clock.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings of the day")

		return res, fmt.Errorf("failed to count bookings of the day: %w", err)
	}

	rooms, err := s.rooms.ListByProperty(ctx, req.PropertyID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list rooms")

		return res, fmt.Errorf("failed to list rooms: %w", err)
	}

	bookings, err := s.bookings.ListInWindow(ctx, req.PropertyID, day, day.AddDate(0, 0, 1))
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings")

		return res, fmt.Errorf("failed to list bookings: %w", err)
	}

	occupancy := availability.ComputeOccupancy(day, roomModel.ToAvailabilityRooms(rooms), bookingModel.ToAvailability(bookings))

	res.PropertyID = req.PropertyID
	res.Day = shared.FormatDay(day)
	res.FromRoomCounts(byStatus)
	res.FromDayCounts(counts)
	res.Occupancy.FromOccupancy(occupancy)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.DashboardTTL); err != nil {
			log.Error().Err(err).Msg("failed to save dashboard summary to cache")
		}
	}()

	return res, nil
}
