package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Room=MockRoomService

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/infras/s3"
	"innkeep/internal/access"
	"innkeep/internal/availability"
	activityModel "innkeep/internal/domains/activity/model"
	activityDto "innkeep/internal/domains/activity/model/dto"
	activityService "innkeep/internal/domains/activity/service"
	"innkeep/internal/domains/room/model"
	"innkeep/internal/domains/room/model/dto"
	"innkeep/internal/domains/room/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	gRepo "innkeep/shared/repository"
	"innkeep/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"

	roomNotFound        = "room not found"
	roomNumberTaken     = "room number already exists in this property"
	roomInUse           = "room still has bookings"
	roomCategoryMissing = "room category not found"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateRoomStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Room
	activity activityService.Activity
	guard    access.Guard
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	s3       s3.S3
	clock    timezone.Clock
}

func New(
	repo repository.Room,
	activity activityService.Activity,
	guard access.Guard,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
	clock timezone.Clock,
) Room {
	return &serviceImpl{
		repo:     repo,
		activity: activity,
		guard:    guard,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		s3:       s3,
		clock:    clock,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guard.Authorize(ctx, req.PropertyID); err != nil {
		return res, err //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	imageURL, objectKey, err := s.upload(ctx, req.ImageFile, req.Image)
	if err != nil {
		return res, err
	}

	room := req.ToModel(user, imageURL, s.clock.Now())

	if err = s.repo.Insert(ctx, room); err != nil {
		s.discard(ctx, objectKey)

		return res, s.writeFailure(err, "create")
	}

	res.FromModel(room)
	s.invalidate(ctx, constant.Empty)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if filter, err = s.scoped(ctx, filter); err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.count(ctx, params, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	if filter, err = s.scoped(ctx, filter); err != nil {
		return res, err
	}

	return s.count(ctx, params, filter)
}

func (s *serviceImpl) count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		if err = s.guard.Authorize(ctx, res.PropertyID); err != nil {
			return dto.RoomResponse{}, err //nolint:wrapcheck
		}

		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	imageURL, objectKey, err := s.upload(ctx, req.ImageFile, req.Image)
	if err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, user)
	if imageURL != constant.Empty {
		updatedFields[model.FieldImage] = imageURL
	}

	if _, err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		s.discard(ctx, objectKey)

		return s.writeFailure(err, "update")
	}

	// The previous photo goes only once the row points at the new one.
	if imageURL != constant.Empty && current.Image != constant.Empty {
		s.discard(ctx, s.s3.ObjectKeyFromURL(current.Image))
	}

	s.invalidate(ctx, id)

	return nil
}

// UpdateStatus changes the housekeeping status of a room. It does not touch bookings.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateRoomStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	status, err := availability.ParseRoomStatus(req.Status)
	if err != nil {
		return failure.BadRequest(err) //nolint:wrapcheck
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if current.Status == status {
		return nil
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	fields := map[string]any{
		model.FieldStatus:        string(status),
		constant.FieldModifiedAt: s.clock.Now(),
		constant.FieldModifiedBy: user,
	}

	if _, err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update room status")

		return fmt.Errorf("failed to update room status: %w", err)
	}

	s.invalidate(ctx, id)
	s.record(ctx, current, map[string]string{"from": string(current.Status), "to": string(status)})

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if _, err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeFkViolation) {
			return failure.Conflict(roomInUse) //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	if current.Image != constant.Empty {
		s.discard(ctx, s.s3.ObjectKeyFromURL(current.Image))
	}

	s.invalidate(ctx, id)

	return nil
}

// load fetches a room and checks the caller may act on its property.
func (s *serviceImpl) load(ctx context.Context, id string) (model.Room, error) {
	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		if errors.Is(err, gRepo.ErrNotFound) {
			return room, failure.NotFound(roomNotFound) //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if err := s.guard.Authorize(ctx, room.PropertyID); err != nil {
		return model.Room{}, err //nolint:wrapcheck
	}

	return room, nil
}

func (s *serviceImpl) scoped(ctx context.Context, filter gDto.FilterGroup) (gDto.FilterGroup, error) {
	visible, err := s.guard.Properties(ctx)
	if err != nil {
		return filter, err //nolint:wrapcheck
	}

	if restriction, ok := visible.Filter(model.FieldPropertyID, model.TableName); ok {
		filter.Add(restriction)
	}

	filter.Operator = gDto.FilterGroupOperatorAnd

	return filter, nil
}

func (s *serviceImpl) writeFailure(err error, action string) error {
	switch {
	case shared.IsPqError(err, constant.PqErrorCodeUniqueViolation):
		return failure.Conflict(roomNumberTaken) //nolint:wrapcheck
	case shared.IsPqError(err, constant.PqErrorCodeFkViolation):
		return failure.BadRequestFromString(roomCategoryMissing) //nolint:wrapcheck
	case shared.IsPqError(err, constant.PqErrorCodeCheckViolation):
		return failure.BadRequestFromString("invalid room status") //nolint:wrapcheck
	}

	log.Error().Err(err).Msgf("failed to %s room", action)

	return fmt.Errorf("failed to %s room: %w", action, err)
}

func (s *serviceImpl) upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (url, objectKey string, err error) {
	if header == nil || file == nil {
		return constant.Empty, constant.Empty, nil
	}

	filename := uuid.NewString() + filepath.Ext(header.Filename)

	url, err = s.s3.UploadFile(ctx, model.EntityName, file, header, filename)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload room image")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to upload image: %w", err)
	}

	return url, s.s3.ObjectKeyFromURL(url), nil
}

func (s *serviceImpl) discard(ctx context.Context, objectKey string) {
	if objectKey == constant.Empty {
		return
	}

	if err := s.s3.DeleteFile(ctx, objectKey); err != nil {
		log.Warn().Err(err).Str("object", objectKey).Msg("failed to delete room image")
	}
}

func (s *serviceImpl) record(ctx context.Context, room model.Room, payload any) {
	entry := activityDto.Entry{
		PropertyID: room.PropertyID,
		Entity:     activityModel.EntityRoom,
		EntityID:   room.ID,
		Action:     activityModel.ActionStatusChanged,
		Payload:    payload,
	}

	go func() {
		if err := s.activity.Record(context.WithoutCancel(ctx), entry); err != nil {
			log.Error().Err(err).Str("room_id", room.ID).Msg("failed to record room activity")
		}
	}()
}

// invalidate drops cached rooms together with the occupancy and dashboard views counting them.
func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete room cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
		shared.InvalidateCaches(c, s.cache, constant.CacheAvailability)
		shared.InvalidateCaches(c, s.cache, constant.CacheDashboardSummary)
	}()
}
