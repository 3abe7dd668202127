package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	"innkeep/infras/kafka"
	kafkaMocks "innkeep/infras/kafka/mocks"
	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/internal/access"
	accessMocks "innkeep/internal/access/mocks"
	"innkeep/internal/domains/activity/mocks"
	"innkeep/internal/domains/activity/model"
	"innkeep/internal/domains/activity/model/dto"
	"innkeep/internal/domains/activity/service"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/timezone"
)

var now = time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, kafkaEnabled bool) (*mocks.MockActivity, *kafkaMocks.MockClient, *accessMocks.MockGuard, service.Activity) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockActivity(ctrl)
	client := kafkaMocks.NewMockClient(ctrl)
	guard := accessMocks.NewMockGuard(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.Enable = kafkaEnabled
	cfg.Kafka.Topic.Activity = "innkeep.activity"

	return repo, client, guard, service.New(repo, client, guard, cfg, otelMocks.NewOtel(), timezone.Fixed(now))
}

func TestRecord(t *testing.T) {
	entry := dto.Entry{
		PropertyID: "p1",
		Entity:     model.EntityBooking,
		EntityID:   "b1",
		Action:     model.ActionCreated,
		Payload:    map[string]string{"status": "reserved"},
	}

	t.Run("stores and publishes", func(t *testing.T) {
		repo, client, _, svc := newService(t, true)

		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m model.Activity) error {
				assert.Equal(t, "u1", m.Actor)
				assert.Equal(t, now, m.CreatedAt)
				assert.JSONEq(t, `{"status":"reserved"}`, string(m.Payload))

				return nil
			})
		client.EXPECT().SendMessages(gomock.Any(), "innkeep.activity", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				require.Len(t, messages, 1)
				assert.Equal(t, "p1", messages[0].Key)
				assert.Equal(t, "booking.created", messages[0].Headers["event_type"])

				event, ok := messages[0].Value.(dto.Event)
				require.True(t, ok)
				assert.Equal(t, "b1", event.EntityID)

				return nil
			})

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "u1")
		require.NoError(t, svc.Record(ctx, entry))
	})

	t.Run("publish failure is not returned", func(t *testing.T) {
		repo, client, _, svc := newService(t, true)

		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		client.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		require.NoError(t, svc.Record(context.Background(), entry))
	})

	t.Run("kafka disabled", func(t *testing.T) {
		repo, _, _, svc := newService(t, false)

		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m model.Activity) error {
				assert.Equal(t, constant.ContextSystem, m.Actor)

				return nil
			})

		require.NoError(t, svc.Record(context.Background(), entry))
	})

	t.Run("insert failure", func(t *testing.T) {
		repo, _, _, svc := newService(t, true)

		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		require.Error(t, svc.Record(context.Background(), entry))
	})
}

func TestList(t *testing.T) {
	repo, _, guard, svc := newService(t, false)

	guard.EXPECT().Properties(gomock.Any()).Return(access.Scope{PropertyIDs: []string{}}, nil)
	repo.EXPECT().Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			where, _ := filter.GetWhereClause()
			assert.Contains(t, where, "1 = 0")

			return 0, nil
		})
	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Activity{}, nil)

	res, err := svc.List(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Empty(t, res.Activities)
	assert.Equal(t, 1, res.TotalPage)
}

func TestEventFromModel(t *testing.T) {
	var event dto.Event
	event.FromModel(model.Activity{ID: "a1", Entity: "room", Action: "updated", Payload: types.JSONText(`{}`)})

	assert.Equal(t, "room.updated", event.Type)
}
