package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Property=MockPropertyService

import (
	"context"
	"errors"
	"fmt"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/access"
	"innkeep/internal/domains/property/model"
	"innkeep/internal/domains/property/model/dto"
	"innkeep/internal/domains/property/repository"
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
	cacheGetProperty     = "property:get"
	cacheGetAllProperty  = "property:gets"
	cacheGetMembers      = "property:members"
	propertyNotFound     = "property not found"
	memberNotFound       = "member not found"
	propertyInUseMessage = "property still has rooms or bookings"
)

type Property interface {
	Create(ctx context.Context, req dto.CreatePropertyRequest) (dto.PropertyResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPropertiesResponse, error)
	Get(ctx context.Context, id string) (dto.PropertyResponse, error)
	Update(ctx context.Context, req dto.UpdatePropertyRequest, id string) error
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, propertyID string, req dto.AddMemberRequest) error
	GetMembers(ctx context.Context, propertyID string) (dto.GetMembersResponse, error)
	RemoveMember(ctx context.Context, propertyID, userID string) error
}

type serviceImpl struct {
	repo       repository.Property
	members    repository.Member
	transactor postgres.Transactor
	guard      access.Guard
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	clock      timezone.Clock
}

func New(
	repo repository.Property,
	members repository.Member,
	transactor postgres.Transactor,
	guard access.Guard,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	clock timezone.Clock,
) Property {
	return &serviceImpl{
		repo:       repo,
		members:    members,
		transactor: transactor,
		guard:      guard,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		clock:      clock,
	}
}

// Create stores the property and makes the caller its first admin in one transaction.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePropertyRequest) (res dto.PropertyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".property.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := s.clock.Now()
	property := req.ToModel(user, now)

	err = s.transactor.WithinTransaction(ctx, nil, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, property); err != nil {
			return err //nolint:wrapcheck
		}

		if user == constant.Empty {
			return nil
		}

		return s.members.InsertTx(ctx, tx, dto.OwnerMembership(property.ID, user, now)) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create property")

		return res, fmt.Errorf("failed to create property: %w", err)
	}

	res.FromModel(property)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllProperty)
	}()

	return res, nil
}

// GetAll lists the properties visible to the caller.
func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPropertiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".property.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	visible, err := s.guard.Properties(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if scoped, ok := visible.Filter(model.FieldID, model.TableName); ok {
		filter.Add(scoped)
	}

	if filter.Operator == constant.Empty {
		filter.Operator = gDto.FilterGroupOperatorAnd
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllProperty, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for properties")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count properties")

		return res, fmt.Errorf("failed to count properties: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get properties")

		return res, fmt.Errorf("failed to get properties: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save properties to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PropertyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".property.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guard.Authorize(ctx, id); err != nil {
		return res, err //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheGetProperty, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for property")

		return res, nil
	}

	property, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		if errors.Is(err, gRepo.ErrNotFound) {
			return res, failure.NotFound(propertyNotFound) //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to get property")

		return res, fmt.Errorf("failed to get property: %w", err)
	}

	res.FromModel(property)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save property to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePropertyRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".property.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guard.Authorize(ctx, id); err != nil {
		return err //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	affected, err := s.repo.Update(ctx, shared.TransformFields(req, user), shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to update property")

		return fmt.Errorf("failed to update property: %w", err)
	}

	if affected == 0 {
		return failure.NotFound(propertyNotFound) //nolint:wrapcheck
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".property.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guard.Authorize(ctx, id); err != nil {
		return err //nolint:wrapcheck
	}

	affected, err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeFkViolation) {
			return failure.Conflict(propertyInUseMessage) //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete property")

		return fmt.Errorf("failed to delete property: %w", err)
	}

	if affected == 0 {
		return failure.NotFound(propertyNotFound) //nolint:wrapcheck
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) AddMember(ctx context.Context, propertyID string, req dto.AddMemberRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".property.AddMember")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guard.Authorize(ctx, propertyID); err != nil {
		return err //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.members.Insert(ctx, req.ToModel(propertyID, user, s.clock.Now())); err != nil {
		switch {
		case shared.IsPqError(err, constant.PqErrorCodeUniqueViolation):
			return failure.Conflict("user is already a member of this property") //nolint:wrapcheck
		case shared.IsPqError(err, constant.PqErrorCodeFkViolation):
			return failure.NotFound("user or property not found") //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to add property member")

		return fmt.Errorf("failed to add property member: %w", err)
	}

	s.invalidateMembers(ctx, propertyID)

	return nil
}

func (s *serviceImpl) GetMembers(ctx context.Context, propertyID string) (res dto.GetMembersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".property.GetMembers")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guard.Authorize(ctx, propertyID); err != nil {
		return res, err //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheGetMembers, propertyID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	params := gDto.QueryParams{SortBy: model.FieldRole, SortDir: gDto.SortDirAsc}
	filter := shared.FilterByField(model.FieldPropertyID, propertyID, model.MemberTableName)

	members, err := s.members.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get property members")

		return res, fmt.Errorf("failed to get property members: %w", err)
	}

	res.FromModels(members)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save property members to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) RemoveMember(ctx context.Context, propertyID, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".property.RemoveMember")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guard.Authorize(ctx, propertyID); err != nil {
		return err //nolint:wrapcheck
	}

	affected, err := s.members.Delete(ctx, repository.MembershipFilter(propertyID, userID))
	if err != nil {
		log.Error().Err(err).Msg("failed to remove property member")

		return fmt.Errorf("failed to remove property member: %w", err)
	}

	if affected == 0 {
		return failure.NotFound(memberNotFound) //nolint:wrapcheck
	}

	s.invalidateMembers(ctx, propertyID)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetProperty, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete property cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllProperty)
	}()
}

// Membership changes alter which properties a user can list, so the list cache goes too.
func (s *serviceImpl) invalidateMembers(ctx context.Context, propertyID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMembers, propertyID)); err != nil {
			log.Error().Err(err).Msg("failed to delete property members cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllProperty)
	}()
}
