package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Activity=MockActivityService

import (
	"context"
	"fmt"

	"innkeep/config"
	"innkeep/infras/kafka"
	"innkeep/infras/otel"
	"innkeep/internal/access"
	"innkeep/internal/domains/activity/model"
	"innkeep/internal/domains/activity/model/dto"
	"innkeep/internal/domains/activity/repository"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/timezone"

	"github.com/rs/zerolog/log"
)

const headerEventType = "event_type"

type Activity interface {
	Record(ctx context.Context, entry dto.Entry) error
	List(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetActivitiesResponse, error)
}

type serviceImpl struct {
	repo  repository.Activity
	kafka kafka.Client
	guard access.Guard
	cfg   *config.Config
	otel  otel.Otel
	clock timezone.Clock
}

func New(repo repository.Activity, kafka kafka.Client, guard access.Guard, cfg *config.Config, otel otel.Otel, clock timezone.Clock) Activity {
	return &serviceImpl{
		repo:  repo,
		kafka: kafka,
		guard: guard,
		cfg:   cfg,
		otel:  otel,
		clock: clock,
	}
}

// Record stores the entry and publishes it when Kafka is enabled. A failed
// publish is logged only; the stored row stays the record of truth.
func (s *serviceImpl) Record(ctx context.Context, entry dto.Entry) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.Record")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if actor == constant.Empty {
		actor = constant.ContextSystem
	}

	activity, err := entry.ToModel(actor, s.clock.Now())
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, activity); err != nil {
		log.Error().Err(err).Str("entity", entry.Entity).Str("action", entry.Action).Msg("failed to record activity")

		return fmt.Errorf("failed to record activity: %w", err)
	}

	s.publish(ctx, activity)

	return nil
}

func (s *serviceImpl) publish(ctx context.Context, activity model.Activity) {
	if !s.cfg.Kafka.Enable || s.kafka == nil {
		return
	}

	var event dto.Event
	event.FromModel(activity)

	message := kafka.Message{
		Key:     activity.PropertyID,
		Value:   event,
		Headers: map[string]string{headerEventType: event.Type},
	}

	if err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topic.Activity, message); err != nil {
		log.Error().Err(err).Str("event", event.Type).Str("id", activity.ID).Msg("failed to publish activity")
	}
}

func (s *serviceImpl) List(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetActivitiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.List")
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

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count activities")

		return res, fmt.Errorf("failed to count activities: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get activities")

		return res, fmt.Errorf("failed to get activities: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}
