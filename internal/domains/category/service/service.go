package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Category=MockCategoryService

import (
	"context"
	"errors"
	"fmt"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/internal/access"
	"innkeep/internal/domains/category/model"
	"innkeep/internal/domains/category/model/dto"
	"innkeep/internal/domains/category/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	gRepo "innkeep/shared/repository"
	"innkeep/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetCategory    = "category:get"
	cacheGetAllCategory = "category:gets"
	categoryNotFound    = "room category not found"
)

type Category interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (dto.CategoryResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCategoriesResponse, error)
	Get(ctx context.Context, id string) (dto.CategoryResponse, error)
	Update(ctx context.Context, req dto.UpdateCategoryRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Category
	guard access.Guard
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	clock timezone.Clock
}

func New(repo repository.Category, guard access.Guard, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, clock timezone.Clock) Category {
	return &serviceImpl{
		repo:  repo,
		guard: guard,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		clock: clock,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCategoryRequest) (res dto.CategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".category.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.guard.Authorize(ctx, req.PropertyID); err != nil {
		return res, err //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	category := req.ToModel(user, s.clock.Now())

	if err = s.repo.Insert(ctx, category); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeUniqueViolation) {
			return res, failure.Conflict("a category with this name already exists") //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create room category")

		return res, fmt.Errorf("failed to create room category: %w", err)
	}

	res.FromModel(category)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllCategory)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCategoriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".category.GetAll")
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
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCategory, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room categories")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count room categories")

		return res, fmt.Errorf("failed to count room categories: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room categories")

		return res, fmt.Errorf("failed to get room categories: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room categories to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".category.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetCategory, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		if err = s.guard.Authorize(ctx, res.PropertyID); err != nil {
			return dto.CategoryResponse{}, err //nolint:wrapcheck
		}

		return res, nil
	}

	category, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(category)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room category to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateCategoryRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".category.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.load(ctx, id); err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if _, err = s.repo.Update(ctx, shared.TransformFields(req, user), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeUniqueViolation) {
			return failure.Conflict("a category with this name already exists") //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to update room category")

		return fmt.Errorf("failed to update room category: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".category.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.load(ctx, id); err != nil {
		return err
	}

	if _, err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete room category")

		return fmt.Errorf("failed to delete room category: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// load fetches a category and checks the caller may act on its property.
func (s *serviceImpl) load(ctx context.Context, id string) (model.Category, error) {
	category, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		if errors.Is(err, gRepo.ErrNotFound) {
			return category, failure.NotFound(categoryNotFound) //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to get room category")

		return category, fmt.Errorf("failed to get room category: %w", err)
	}

	if err := s.guard.Authorize(ctx, category.PropertyID); err != nil {
		return model.Category{}, err //nolint:wrapcheck
	}

	return category, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetCategory, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room category cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllCategory)
	}()
}
