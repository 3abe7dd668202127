package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/access"
	"innkeep/internal/availability"
	activityModel "innkeep/internal/domains/activity/model"
	activityDto "innkeep/internal/domains/activity/model/dto"
	activityService "innkeep/internal/domains/activity/service"
	"innkeep/internal/domains/booking/model"
	"innkeep/internal/domains/booking/model/dto"
	"innkeep/internal/domains/booking/repository"
	roomRepo "innkeep/internal/domains/room/repository"
	"innkeep/internal/metrics"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	gRepo "innkeep/shared/repository"
	"innkeep/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking = "booking:get"

	bookingNotFound  = "booking not found"
	roomNotInScope   = "room does not belong to this property"
	bookingFinished  = "dates and room of a finished booking cannot change"
	holdExpired      = "the hold on this booking has expired"
	stayUnavailable  = "room is already booked for the requested stay"
	groupUnavailable = "one or more rooms are unavailable for the requested stay"
	bookedMeanwhile  = "room was booked by a concurrent request, please retry"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	CreateGroup(ctx context.Context, req dto.CreateGroupBookingRequest) (dto.GroupBookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Transition(ctx context.Context, req dto.TransitionRequest, id string) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string) error
	ReleaseExpiredHolds(ctx context.Context, req dto.ReleaseHoldsRequest) (dto.ReleaseHoldsResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	rooms      roomRepo.Room
	transactor postgres.Transactor
	activity   activityService.Activity
	guard      access.Guard
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	clock      timezone.Clock
}

func New(
	repo repository.Booking,
	rooms roomRepo.Room,
	transactor postgres.Transactor,
	activity activityService.Activity,
	guard access.Guard,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	clock timezone.Clock,
) Booking {
	return &serviceImpl{
		repo:       repo,
		rooms:      rooms,
		transactor: transactor,
		activity:   activity,
		guard:      guard,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		clock:      clock,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guard.Authorize(ctx, req.PropertyID); err != nil {
		return res, err //nolint:wrapcheck
	}

	now := s.clock.Now()

	checkIn, checkOut, err := s.stay(req.CheckIn, req.CheckOut)
	if err != nil {
		return res, err
	}

	holdUntil, err := s.holdDeadline(req.Stay, now)
	if err != nil {
		return res, err
	}

	var roomIDs []string
	if req.RoomID != nil {
		roomIDs = []string{*req.RoomID}

		if err = s.checkRooms(ctx, req.PropertyID, roomIDs); err != nil {
			return res, err
		}
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	booking := req.ToModel(user, checkIn, checkOut, holdUntil, now)

	var released []string

	err = s.transactor.WithinTransaction(ctx, postgres.Serializable, func(tx *sqlx.Tx) error {
		ids, existing, err := s.clearRooms(ctx, tx, roomIDs, checkIn, checkOut, now)
		if err != nil {
			return err
		}

		if req.RoomID != nil {
			if err := availability.CheckStay(*req.RoomID, checkIn, checkOut, existing, availability.AsOf(now)); err != nil {
				return err
			}
		}

		released = ids

		return s.repo.InsertTx(ctx, tx, booking)
	})
	if err != nil {
		return res, s.writeFailure(err, metrics.ConflictScopeSingle, "failed to create booking")
	}

	metrics.RecordBookingCreated(string(booking.Status), 1)
	s.recordReleased(ctx, req.PropertyID, released)
	s.record(ctx, booking, activityModel.ActionCreated, nil)
	s.invalidate(ctx, released...)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) CreateGroup(ctx context.Context, req dto.CreateGroupBookingRequest) (res dto.GroupBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CreateGroup")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guard.Authorize(ctx, req.PropertyID); err != nil {
		return res, err //nolint:wrapcheck
	}

	now := s.clock.Now()

	checkIn, checkOut, err := s.stay(req.CheckIn, req.CheckOut)
	if err != nil {
		return res, err
	}

	if _, err = availability.AssignMultiRoom(req.RoomIDs, checkIn, checkOut, nil); err != nil {
		return res, s.writeFailure(err, metrics.ConflictScopeGroup, "failed to create group booking")
	}

	holdUntil, err := s.holdDeadline(req.Stay, now)
	if err != nil {
		return res, err
	}

	if err = s.checkRooms(ctx, req.PropertyID, req.RoomIDs); err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	bookings := req.ToModels(user, checkIn, checkOut, holdUntil, now)

	var released []string

	err = s.transactor.WithinTransaction(ctx, postgres.Serializable, func(tx *sqlx.Tx) error {
		ids, existing, err := s.clearRooms(ctx, tx, req.RoomIDs, checkIn, checkOut, now)
		if err != nil {
			return err
		}

		byRoom := model.GroupByRoom(existing)
		if _, err := availability.AssignMultiRoom(req.RoomIDs, checkIn, checkOut, byRoom, availability.AsOf(now)); err != nil {
			return err
		}

		released = ids

		return s.repo.InsertBulkTx(ctx, tx, bookings)
	})
	if err != nil {
		return res, s.writeFailure(err, metrics.ConflictScopeGroup, "failed to create group booking")
	}

	metrics.RecordBookingCreated(string(bookings[0].Status), len(bookings))
	s.recordReleased(ctx, req.PropertyID, released)

	for _, booking := range bookings {
		s.record(ctx, booking, activityModel.ActionGroupCreated, map[string]any{"group_id": booking.GroupID})
	}

	s.invalidate(ctx, released...)

	res.FromModels(bookings)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	visible, err := s.guard.Properties(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if scoped, ok := visible.Filter(model.FieldPropertyID, model.TableName); ok {
		filter.Add(scoped)
	}

	filter.Operator = gDto.FilterGroupOperatorAnd
	cacheKey := shared.BuildCacheKeyWithQuery(constant.CacheGetAllBooking, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		if err = s.guard.Authorize(ctx, res.PropertyID); err != nil {
			return dto.BookingResponse{}, err //nolint:wrapcheck
		}

		return res, nil
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// Update patches guest details, dates, room and status. A new stay or room is
// validated again against every other booking of the room.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	fields := req.GuestFields()
	next := current.Status

	if req.Status != constant.Empty {
		if next, err = s.nextStatus(current, req.Status, now); err != nil {
			return err
		}
	}

	moved := req.RoomID != nil || req.CheckIn != constant.Empty || req.CheckOut != constant.Empty
	checkIn, checkOut, roomID := current.CheckIn, current.CheckOut, current.RoomID

	if moved {
		if current.Status.Terminal() {
			return failure.Unprocessable(bookingFinished) //nolint:wrapcheck
		}

		if current.ToAvailability().HoldExpired(now) {
			return failure.Unprocessable(holdExpired) //nolint:wrapcheck
		}

		if checkIn, checkOut, err = s.stay(orDay(req.CheckIn, current.CheckIn), orDay(req.CheckOut, current.CheckOut)); err != nil {
			return err
		}

		if req.RoomID != nil {
			roomID = req.RoomID
			fields[model.FieldRoomID] = *roomID

			if err = s.checkRooms(ctx, current.PropertyID, []string{*roomID}); err != nil {
				return err
			}
		}

		fields[model.FieldCheckIn] = shared.FormatDay(checkIn)
		fields[model.FieldCheckOut] = shared.FormatDay(checkOut)
	}

	if next != current.Status {
		fields[model.FieldStatus] = string(next)

		if current.Status == availability.StatusTentative {
			fields[model.FieldAutoReleaseAt] = nil
		}
	}

	if len(fields) == 0 {
		return nil
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	fields[constant.FieldModifiedAt] = now
	fields[constant.FieldModifiedBy] = user

	recheck := roomID != nil && next.Blocking() && (moved || (current.Status == availability.StatusTentative && next != current.Status))

	released, err := s.save(ctx, current, fields, roomID, checkIn, checkOut, recheck, now)
	if err != nil {
		return err
	}

	if next != current.Status {
		metrics.RecordTransition(string(current.Status), string(next))
	}

	s.recordReleased(ctx, current.PropertyID, released)
	s.record(ctx, current, activityModel.ActionUpdated, fields)
	s.invalidate(ctx, append(released, id)...)

	return nil
}

func (s *serviceImpl) Transition(ctx context.Context, req dto.TransitionRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Transition")
	defer scope.End()
	defer scope.TraceIfError(err)

	current, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	now := s.clock.Now()

	next, err := s.nextStatus(current, req.Status, now)
	if err != nil {
		return res, err
	}

	if next == current.Status {
		res.FromModel(current)

		return res, nil
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	fields := map[string]any{
		model.FieldStatus:        string(next),
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if current.Status == availability.StatusTentative {
		fields[model.FieldAutoReleaseAt] = nil
	}

	recheck := current.RoomID != nil && current.Status == availability.StatusTentative && next.Blocking()

	released, err := s.save(ctx, current, fields, current.RoomID, current.CheckIn, current.CheckOut, recheck, now)
	if err != nil {
		return res, err
	}

	metrics.RecordTransition(string(current.Status), string(next))
	s.recordReleased(ctx, current.PropertyID, released)
	s.record(ctx, current, activityModel.ActionStatusChanged, map[string]string{"from": string(current.Status), "to": string(next)})
	s.invalidate(ctx, append(released, id)...)

	updated := current
	updated.Status = next
	updated.ModifiedAt = now
	updated.ModifiedBy = user

	if current.Status == availability.StatusTentative {
		updated.AutoReleaseAt = nil
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if affected == 0 {
		return failure.NotFound(bookingNotFound) //nolint:wrapcheck
	}

	s.record(ctx, current, activityModel.ActionDeleted, nil)
	s.invalidate(ctx, id)

	return nil
}

// ReleaseExpiredHolds cancels tentative bookings whose deadline passed.
// Without a property it sweeps every property and needs a privileged caller.
func (s *serviceImpl) ReleaseExpiredHolds(ctx context.Context, req dto.ReleaseHoldsRequest) (res dto.ReleaseHoldsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ReleaseExpiredHolds")
	defer scope.End()
	defer scope.TraceIfError(err)

	switch {
	case req.PropertyID != constant.Empty:
		if err = s.guard.Authorize(ctx, req.PropertyID); err != nil {
			return res, err //nolint:wrapcheck
		}
	case !access.Privileged(ctx):
		return res, failure.Forbidden("releasing holds across properties requires a superadmin") //nolint:wrapcheck
	}

	now := s.clock.Now()

	candidates, err := s.repo.ListExpiredHolds(ctx, req.PropertyID, now, req.Limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list expired holds")

		return res, fmt.Errorf("failed to list expired holds: %w", err)
	}

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if actor == constant.Empty {
		actor = constant.ContextSystem
	}

	res.BookingIDs = []string{}

	for _, hold := range availability.FindExpiredHolds(model.ToAvailability(candidates), now) {
		released, err := s.repo.ReleaseHold(ctx, hold.ID, now, actor)
		if err != nil {
			log.Error().Err(err).Str("booking_id", hold.ID).Msg("failed to release hold")

			continue
		}

		if !released {
			continue
		}

		res.BookingIDs = append(res.BookingIDs, hold.ID)
		s.recordEntry(ctx, activityDto.Entry{
			PropertyID: hold.PropertyID,
			Entity:     activityModel.EntityBooking,
			EntityID:   hold.ID,
			Action:     activityModel.ActionHoldReleased,
			Payload:    map[string]any{"auto_release_at": hold.AutoReleaseAt},
		})
	}

	res.Released = len(res.BookingIDs)
	metrics.RecordHoldsReleased(res.Released)

	if res.Released > 0 {
		log.Info().Int("released", res.Released).Msg("released expired booking holds")
		s.invalidate(ctx, res.BookingIDs...)
	}

	return res, nil
}

// load fetches a booking and checks the caller may act on its property.
func (s *serviceImpl) load(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		if errors.Is(err, gRepo.ErrNotFound) {
			return booking, failure.NotFound(bookingNotFound) //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if err := s.guard.Authorize(ctx, booking.PropertyID); err != nil {
		return model.Booking{}, err //nolint:wrapcheck
	}

	return booking, nil
}

// stay parses and validates a candidate stay against the configured maximum length.
func (s *serviceImpl) stay(checkIn, checkOut string) (in, out time.Time, err error) {
	if in, err = shared.ParseDay(checkIn); err != nil {
		return in, out, failure.BadRequest(err) //nolint:wrapcheck
	}

	if out, err = shared.ParseDay(checkOut); err != nil {
		return in, out, failure.BadRequest(err) //nolint:wrapcheck
	}

	stay, err := availability.ValidateCandidateStay(in, out)
	if err != nil {
		return in, out, failure.BadRequest(err) //nolint:wrapcheck
	}

	if limit := s.cfg.App.Booking.MaxNights; limit > 0 && stay.Nights() > limit {
		return in, out, failure.BadRequestFromString(fmt.Sprintf("a stay cannot exceed %d nights", limit)) //nolint:wrapcheck
	}

	return stay.CheckIn, stay.CheckOut, nil
}

func (s *serviceImpl) holdDeadline(stay dto.Stay, now time.Time) (*time.Time, error) {
	if stay.InitialStatus() != availability.StatusTentative {
		if stay.AutoReleaseAt != nil {
			return nil, failure.BadRequestFromString("auto_release_at is only allowed on tentative bookings") //nolint:wrapcheck
		}

		return nil, nil
	}

	if stay.AutoReleaseAt != nil {
		if !stay.AutoReleaseAt.After(now) {
			return nil, failure.BadRequestFromString("auto_release_at must be in the future") //nolint:wrapcheck
		}

		deadline := stay.AutoReleaseAt.UTC()

		return &deadline, nil
	}

	deadline := now.Add(time.Duration(s.cfg.App.Booking.HoldMinutes) * time.Minute)

	return &deadline, nil
}

func (s *serviceImpl) nextStatus(current model.Booking, requested string, now time.Time) (availability.Status, error) {
	to, err := availability.ParseStatus(requested)
	if err != nil {
		return current.Status, failure.BadRequest(err) //nolint:wrapcheck
	}

	next, err := availability.Transition(current.Status, to)
	if err != nil {
		return current.Status, failure.Unprocessable(err.Error()) //nolint:wrapcheck
	}

	if next == availability.StatusReserved && current.ToAvailability().HoldExpired(now) {
		return current.Status, failure.Unprocessable(holdExpired) //nolint:wrapcheck
	}

	return next, nil
}

// checkRooms makes sure every room exists in the property and can take guests.
func (s *serviceImpl) checkRooms(ctx context.Context, propertyID string, roomIDs []string) error {
	rooms, err := s.rooms.ListByIDs(ctx, roomIDs)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return fmt.Errorf("failed to get rooms: %w", err)
	}

	found := make(map[string]availability.RoomStatus, len(rooms))
	for _, room := range rooms {
		if room.PropertyID == propertyID {
			found[room.ID] = room.Status
		}
	}

	for _, roomID := range roomIDs {
		status, ok := found[roomID]
		if !ok {
			return failure.BadRequestFromString(roomNotInScope) //nolint:wrapcheck
		}

		if status == availability.RoomOutOfService {
			return failure.Unprocessable(fmt.Sprintf("room %s is out of service", roomID)) //nolint:wrapcheck
		}
	}

	return nil
}

// clearRooms releases the expired holds on roomIDs and returns them together
// with the bookings still overlapping the stay.
func (s *serviceImpl) clearRooms(ctx context.Context, tx *sqlx.Tx, roomIDs []string, checkIn, checkOut, now time.Time) ([]string, []availability.Booking, error) {
	if len(roomIDs) == 0 {
		return nil, nil, nil
	}

	released, err := s.repo.ReleaseExpiredHoldsTx(ctx, tx, roomIDs, now)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to release expired holds: %w", err)
	}

	existing, err := s.repo.ListOverlappingTx(ctx, tx, roomIDs, checkIn, checkOut)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list overlapping bookings: %w", err)
	}

	return released, model.ToAvailability(existing), nil
}

// save writes fields to the booking. With recheck the room is read again in a
// serializable transaction, its expired holds are released and the new stay must
// not collide with any other booking. It returns the ids of the released holds.
func (s *serviceImpl) save(ctx context.Context, current model.Booking, fields map[string]any, roomID *string, checkIn, checkOut time.Time, recheck bool, now time.Time) ([]string, error) {
	filter := shared.FilterByID(current.ID, model.FieldID, model.TableName)

	var (
		affected int64
		released []string
	)

	write := func(tx *sqlx.Tx) error {
		if recheck {
			ids, existing, err := s.clearRooms(ctx, tx, []string{*roomID}, checkIn, checkOut, now)
			if err != nil {
				return err
			}

			err = availability.CheckStay(*roomID, checkIn, checkOut, existing,
				availability.ExcludeBooking(current.ID), availability.AsOf(now))
			if err != nil {
				return err
			}

			released = ids
		}

		var err error
		affected, err = s.repo.UpdateTx(ctx, tx, fields, filter)

		return err //nolint:wrapcheck
	}

	var err error
	if recheck {
		err = s.transactor.WithinTransaction(ctx, postgres.Serializable, write)
	} else {
		err = write(nil)
	}

	if err != nil {
		return nil, s.writeFailure(err, metrics.ConflictScopeSingle, "failed to update booking")
	}

	if affected == 0 {
		return nil, failure.NotFound(bookingNotFound) //nolint:wrapcheck
	}

	return released, nil
}

// writeFailure turns engine and database errors of a booking write into failures.
func (s *serviceImpl) writeFailure(err error, conflictScope, message string) error {
	var (
		conflict *availability.ConflictError
		group    *availability.GroupConflictError
	)

	switch {
	case errors.As(err, &conflict):
		metrics.RecordConflict(conflictScope)

		return failure.ConflictWithDetails(stayUnavailable, dto.ConflictsFromAvailability(conflict.Conflicts)) //nolint:wrapcheck
	case errors.As(err, &group):
		metrics.RecordConflict(conflictScope)

		return failure.ConflictWithDetails(groupUnavailable, dto.RoomResultsFromAvailability(group.Results)) //nolint:wrapcheck
	case errors.Is(err, availability.ErrInvalidRange),
		errors.Is(err, availability.ErrNoRooms),
		errors.Is(err, availability.ErrDuplicateRoom):
		return failure.BadRequest(err) //nolint:wrapcheck
	case shared.IsPqError(err, constant.PqErrorCodeExclusionViolation, constant.PqErrorCodeSerializationFailure):
		metrics.RecordConflict(metrics.ConflictScopeStore)

		return failure.Conflict(bookedMeanwhile) //nolint:wrapcheck
	case shared.IsPqError(err, constant.PqErrorCodeFkViolation):
		return failure.BadRequestFromString("referenced property or room does not exist") //nolint:wrapcheck
	case shared.IsPqError(err, constant.PqErrorCodeCheckViolation):
		return failure.BadRequestFromString("booking violates a data constraint") //nolint:wrapcheck
	}

	log.Error().Err(err).Msg(message)

	return fmt.Errorf("%s: %w", message, err)
}

func orDay(value string, fallback time.Time) string {
	if value == constant.Empty {
		return shared.FormatDay(fallback)
	}

	return value
}

func (s *serviceImpl) record(ctx context.Context, booking model.Booking, action string, payload any) {
	s.recordEntry(ctx, activityDto.Entry{
		PropertyID: booking.PropertyID,
		Entity:     activityModel.EntityBooking,
		EntityID:   booking.ID,
		Action:     action,
		Payload:    payload,
	})
}

func (s *serviceImpl) recordReleased(ctx context.Context, propertyID string, ids []string) {
	if len(ids) == 0 {
		return
	}

	metrics.RecordHoldsReleased(len(ids))

	for _, id := range ids {
		s.recordEntry(ctx, activityDto.Entry{
			PropertyID: propertyID,
			Entity:     activityModel.EntityBooking,
			EntityID:   id,
			Action:     activityModel.ActionHoldReleased,
		})
	}
}

func (s *serviceImpl) recordEntry(ctx context.Context, entry activityDto.Entry) {
	go func() {
		if err := s.activity.Record(context.WithoutCancel(ctx), entry); err != nil {
			log.Error().Err(err).Str("booking_id", entry.EntityID).Msg("failed to record booking activity")
		}
	}()
}

// invalidate drops the cached bookings ids together with every view derived from them.
func (s *serviceImpl) invalidate(ctx context.Context, ids ...string) {
	go func() {
		c := context.WithoutCancel(ctx)

		for _, id := range ids {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
				log.Error().Err(err).Str("booking_id", id).Msg("failed to delete booking cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, constant.CacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, constant.CacheDashboardSummary)
		shared.InvalidateCaches(c, s.cache, constant.CacheAvailability)
	}()
}
