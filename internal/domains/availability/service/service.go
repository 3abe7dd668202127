package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/internal/access"
	"innkeep/internal/availability"
	"innkeep/internal/domains/availability/model/dto"
	bookingModel "innkeep/internal/domains/booking/model"
	bookingDto "innkeep/internal/domains/booking/model/dto"
	bookingRepo "innkeep/internal/domains/booking/repository"
	roomModel "innkeep/internal/domains/room/model"
	roomRepo "innkeep/internal/domains/room/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
	gRepo "innkeep/shared/repository"
	"innkeep/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	maxReportDays = 366

	roomNotFound   = "room not found"
	roomNotInScope = "room does not belong to this property"
)

type Availability interface {
	Check(ctx context.Context, req dto.CheckRequest) (dto.CheckResponse, error)
	CheckGroup(ctx context.Context, req dto.CheckGroupRequest) (dto.CheckGroupResponse, error)
	Occupancy(ctx context.Context, req dto.DayQuery) (dto.OccupancyResponse, error)
	Series(ctx context.Context, req dto.RangeQuery) (dto.SeriesResponse, error)
	Calendar(ctx context.Context, req dto.RangeQuery) (dto.CalendarResponse, error)
	ExpiredHolds(ctx context.Context, propertyID string) (dto.ExpiredHoldsResponse, error)
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
) Availability {
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

// Check reports whether a room is free for a stay. Expired holds never block it.
func (s *serviceImpl) Check(ctx context.Context, req dto.CheckRequest) (res dto.CheckResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Check")
	defer scope.End()
	defer scope.TraceIfError(err)

	room, err := s.rooms.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		if errors.Is(err, gRepo.ErrNotFound) {
			return res, failure.NotFound(roomNotFound) //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if err = s.guard.Authorize(ctx, room.PropertyID); err != nil {
		return res, err //nolint:wrapcheck
	}

	stay, err := candidateStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return res, err
	}

	existing, err := s.bookings.ListOverlappingTx(ctx, nil, []string{room.ID}, stay.CheckIn, stay.CheckOut)
	if err != nil {
		log.Error().Err(err).Msg("failed to list overlapping bookings")

		return res, fmt.Errorf("failed to list overlapping bookings: %w", err)
	}

	opts := []availability.ConflictOption{availability.AsOf(s.clock.Now())}
	if req.ExcludeBookingID != constant.Empty {
		opts = append(opts, availability.ExcludeBooking(req.ExcludeBookingID))
	}

	conflicts, err := availability.FindConflicts(room.ID, stay.CheckIn, stay.CheckOut, bookingModel.ToAvailability(existing), opts...)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	res.FromStay(room.ID, stay, conflicts)

	return res, nil
}

// CheckGroup reports per room whether a group stay fits. A busy room is part
// of the answer, not an error.
func (s *serviceImpl) CheckGroup(ctx context.Context, req dto.CheckGroupRequest) (res dto.CheckGroupResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.CheckGroup")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guard.Authorize(ctx, req.PropertyID); err != nil {
		return res, err //nolint:wrapcheck
	}

	stay, err := candidateStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return res, err
	}

	rooms, err := s.rooms.ListByIDs(ctx, req.RoomIDs)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	inProperty := map[string]bool{}
	for _, room := range rooms {
		inProperty[room.ID] = room.PropertyID == req.PropertyID
	}

	for _, roomID := range req.RoomIDs {
		if !inProperty[roomID] {
			return res, failure.BadRequestFromString(roomNotInScope) //nolint:wrapcheck
		}
	}

	existing, err := s.bookings.ListOverlappingTx(ctx, nil, req.RoomIDs, stay.CheckIn, stay.CheckOut)
	if err != nil {
		log.Error().Err(err).Msg("failed to list overlapping bookings")

		return res, fmt.Errorf("failed to list overlapping bookings: %w", err)
	}

	byRoom := bookingModel.GroupByRoom(bookingModel.ToAvailability(existing))
	results, err := availability.AssignMultiRoom(req.RoomIDs, stay.CheckIn, stay.CheckOut, byRoom, availability.AsOf(s.clock.Now()))

	var group *availability.GroupConflictError

	switch {
	case errors.As(err, &group):
		results = group.Results
	case err != nil:
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	res.Available = group == nil
	res.Rooms = bookingDto.RoomResultsFromAvailability(results)

	return res, nil
}

// Occupancy reports one day, today in the application timezone by default.
func (s *serviceImpl) Occupancy(ctx context.Context, req dto.DayQuery) (res dto.OccupancyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Occupancy")
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

	key := shared.BuildCacheKey(constant.CacheAvailability, "occupancy", req.PropertyID, shared.FormatDay(day))

	return remember(ctx, s, key, func() (dto.OccupancyResponse, error) {
		rooms, bookings, err := s.snapshot(ctx, req.PropertyID, day, day.AddDate(0, 0, 1))
		if err != nil {
			return dto.OccupancyResponse{}, err
		}

		var occupancy dto.OccupancyResponse
		occupancy.FromOccupancy(availability.ComputeOccupancy(day, rooms, bookings))

		return occupancy, nil
	})
}

func (s *serviceImpl) Series(ctx context.Context, req dto.RangeQuery) (res dto.SeriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Series")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guard.Authorize(ctx, req.PropertyID); err != nil {
		return res, err //nolint:wrapcheck
	}

	from, to, err := window(req.From, req.To)
	if err != nil {
		return res, err
	}

	key := shared.BuildCacheKey(constant.CacheAvailability, "series", req.PropertyID, req.From, req.To)

	return remember(ctx, s, key, func() (dto.SeriesResponse, error) {
		rooms, bookings, err := s.snapshot(ctx, req.PropertyID, from, to)
		if err != nil {
			return dto.SeriesResponse{}, err
		}

		series := dto.SeriesResponse{
			PropertyID: req.PropertyID,
			From:       shared.FormatDay(from),
			To:         shared.FormatDay(to),
			Days:       []dto.OccupancyResponse{},
		}

		var occupied, total int

		for occupancy := range availability.OccupancySeries(availability.Days(from, to), rooms, bookings) {
			var item dto.OccupancyResponse
			item.FromOccupancy(occupancy)

			series.Days = append(series.Days, item)
			occupied += occupancy.Occupied
			total += occupancy.Total
		}

		if total > 0 {
			series.AverageRate = float64(occupied) / float64(total)
		}

		return series, nil
	})
}

func (s *serviceImpl) Calendar(ctx context.Context, req dto.RangeQuery) (res dto.CalendarResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Calendar")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guard.Authorize(ctx, req.PropertyID); err != nil {
		return res, err //nolint:wrapcheck
	}

	from, to, err := window(req.From, req.To)
	if err != nil {
		return res, err
	}

	key := shared.BuildCacheKey(constant.CacheAvailability, "calendar", req.PropertyID, req.From, req.To)

	return remember(ctx, s, key, func() (dto.CalendarResponse, error) {
		rooms, bookings, err := s.snapshot(ctx, req.PropertyID, from, to)
		if err != nil {
			return dto.CalendarResponse{}, err
		}

		calendar := dto.CalendarResponse{PropertyID: req.PropertyID, From: shared.FormatDay(from), To: shared.FormatDay(to)}
		calendar.FromCalendar(availability.Calendar(availability.Days(from, to), rooms, bookings))

		return calendar, nil
	})
}

// ExpiredHolds previews the holds the sweeper would release right now.
func (s *serviceImpl) ExpiredHolds(ctx context.Context, propertyID string) (res dto.ExpiredHoldsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.ExpiredHolds")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guard.Authorize(ctx, propertyID); err != nil {
		return res, err //nolint:wrapcheck
	}

	now := s.clock.Now()

	candidates, err := s.bookings.ListExpiredHolds(ctx, propertyID, now, 0)
	if err != nil {
		log.Error().Err(err).Msg("failed to list expired holds")

		return res, fmt.Errorf("failed to list expired holds: %w", err)
	}

	res.PropertyID = propertyID
	res.FromBookings(availability.FindExpiredHolds(bookingModel.ToAvailability(candidates), now))

	return res, nil
}

// snapshot loads the roster of a property and its bookings touching [from, to).
func (s *serviceImpl) snapshot(ctx context.Context, propertyID string, from, to time.Time) ([]availability.Room, []availability.Booking, error) {
	rooms, err := s.rooms.ListByProperty(ctx, propertyID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list rooms")

		return nil, nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	bookings, err := s.bookings.ListInWindow(ctx, propertyID, from, to)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings")

		return nil, nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return roomModel.ToAvailabilityRooms(rooms), bookingModel.ToAvailability(bookings), nil
}

func candidateStay(checkIn, checkOut string) (availability.Stay, error) {
	in, err := shared.ParseDay(checkIn)
	if err != nil {
		return availability.Stay{}, failure.BadRequest(err) //nolint:wrapcheck
	}

	out, err := shared.ParseDay(checkOut)
	if err != nil {
		return availability.Stay{}, failure.BadRequest(err) //nolint:wrapcheck
	}

	stay, err := availability.ValidateCandidateStay(in, out)
	if err != nil {
		return stay, failure.BadRequest(err) //nolint:wrapcheck
	}

	return stay, nil
}

func window(from, to string) (time.Time, time.Time, error) {
	stay, err := candidateStay(from, to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if stay.Nights() > maxReportDays {
		return time.Time{}, time.Time{}, failure.BadRequestFromString(fmt.Sprintf("a report covers at most %d days", maxReportDays)) //nolint:wrapcheck
	}

	return stay.CheckIn, stay.CheckOut, nil
}

// remember serves key from the cache or computes and stores it for the dashboard TTL.
func remember[T any](ctx context.Context, s *serviceImpl, key string, load func() (T, error)) (T, error) {
	var res T

	if err := s.cache.Get(ctx, key, &res); err == nil {
		return res, nil
	}

	res, err := load()
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, res, s.cfg.Cache.DashboardTTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save availability report to cache")
		}
	}()

	return res, nil
}
