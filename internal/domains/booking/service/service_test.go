package service_test

import (
	"context"
	"database/sql"
	"net/http"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"innkeep/config"
	otelMocks "innkeep/infras/otel/mocks"
	pgMocks "innkeep/infras/postgres/mocks"
	accessMocks "innkeep/internal/access/mocks"
	"innkeep/internal/availability"
	activityMocks "innkeep/internal/domains/activity/mocks"
	"innkeep/internal/domains/booking/mocks"
	"innkeep/internal/domains/booking/model"
	"innkeep/internal/domains/booking/model/dto"
	"innkeep/internal/domains/booking/service"
	roomMocks "innkeep/internal/domains/room/mocks"
	roomModel "innkeep/internal/domains/room/model"
	"innkeep/internal/metrics"
	cacheMocks "innkeep/shared/cache/mocks"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/timezone"
)

var now = time.Date(2026, 2, 10, 7, 0, 0, 0, time.UTC)

type fixture struct {
	t          *testing.T
	repo       *mocks.MockBooking
	rooms      *roomMocks.MockRoom
	transactor *pgMocks.MockTransactor
	guard      *accessMocks.MockGuard
	evicted    *evictions
	svc        service.Booking
}

// evictions collects the keys deleted from the cache by background invalidation.
type evictions struct {
	mu   sync.Mutex
	keys []string
}

func (e *evictions) add(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.keys = append(e.keys, key)
}

func (e *evictions) has(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Contains(e.keys, key)
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		t:          t,
		repo:       mocks.NewMockBooking(ctrl),
		rooms:      roomMocks.NewMockRoom(ctrl),
		transactor: pgMocks.NewMockTransactor(ctrl),
		guard:      accessMocks.NewMockGuard(ctrl),
		evicted:    &evictions{},
	}

	activity := activityMocks.NewMockActivityService(ctrl)
	activity.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	redis := cacheMocks.NewMockRedisCache(ctrl)
	redis.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redis.EXPECT().Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) error {
			f.evicted.add(key)

			return nil
		}).
		AnyTimes()
	redis.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.App.Booking.HoldMinutes = 30
	cfg.App.Booking.MaxNights = 30

	f.svc = service.New(f.repo, f.rooms, f.transactor, activity, f.guard, cfg, redis, otelMocks.NewOtel(), timezone.Fixed(now))

	return f
}

func (f fixture) runTransactions() {
	f.transactor.EXPECT().
		WithinTransaction(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts *sql.TxOptions, fn func(*sqlx.Tx) error) error {
			require.NotNil(f.t, opts)
			assert.Equal(f.t, sql.LevelSerializable, opts.Isolation)

			return fn(nil)
		})
}

func (f fixture) assertEvicted(keys ...string) {
	f.t.Helper()

	for _, key := range keys {
		assert.Eventually(f.t, func() bool { return f.evicted.has(key) }, time.Second, 5*time.Millisecond, "cache key %s", key)
	}
}

func (f fixture) roomsInProperty(rooms ...roomModel.Room) {
	f.rooms.EXPECT().ListByIDs(gomock.Any(), gomock.Any()).Return(rooms, nil)
}

func day(value string) time.Time {
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}

	return parsed
}

func ptr[T any](v T) *T {
	return &v
}

func room(id string) roomModel.Room {
	return roomModel.Room{ID: id, PropertyID: "p1", Number: id, Status: availability.RoomAvailable}
}

func stored(id, roomID, checkIn, checkOut string, status availability.Status) model.Booking {
	return model.Booking{
		ID:         id,
		PropertyID: "p1",
		RoomID:     &roomID,
		GuestName:  "Guest " + id,
		CheckIn:    day(checkIn),
		CheckOut:   day(checkOut),
		Status:     status,
	}
}

func createRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		PropertyID: "p1",
		RoomID:     ptr("r1"),
		Guest:      dto.Guest{GuestName: "Ana"},
		Stay:       dto.Stay{CheckIn: "2026-03-01", CheckOut: "2026-03-04"},
	}
}

func TestCreate(t *testing.T) {
	t.Run("reserves a free room", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.roomsInProperty(room("r1"))
		f.runTransactions()
		f.repo.EXPECT().ReleaseExpiredHoldsTx(gomock.Any(), gomock.Any(), []string{"r1"}, now).Return([]string{}, nil)
		f.repo.EXPECT().ListOverlappingTx(gomock.Any(), gomock.Any(), []string{"r1"}, day("2026-03-01"), day("2026-03-04")).
			Return([]model.Booking{stored("b0", "r1", "2026-02-26", "2026-03-01", availability.StatusReserved)}, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
				assert.Equal(t, availability.StatusReserved, b.Status)
				assert.Equal(t, 1, b.Adults)
				assert.Nil(t, b.AutoReleaseAt)

				return nil
			})

		res, err := f.svc.Create(context.Background(), createRequest())
		require.NoError(t, err)
		assert.Equal(t, 3, res.Nights)
		assert.Equal(t, "2026-03-01", res.CheckIn)
		assert.Equal(t, "reserved", res.Status)
	})

	t.Run("tentative booking gets a hold deadline", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.roomsInProperty(room("r1"))
		f.runTransactions()
		f.repo.EXPECT().ReleaseExpiredHoldsTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]string{"old"}, nil)
		f.repo.EXPECT().ListOverlappingTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
				require.NotNil(t, b.AutoReleaseAt)
				assert.Equal(t, now.Add(30*time.Minute), *b.AutoReleaseAt)

				return nil
			})

		req := createRequest()
		req.Status = string(availability.StatusTentative)

		res, err := f.svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.NotNil(t, res.AutoReleaseAt)
		f.assertEvicted("booking:get:old")
	})

	t.Run("unassigned booking skips the room check", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.runTransactions()
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		req := createRequest()
		req.RoomID = nil

		_, err := f.svc.Create(context.Background(), req)
		require.NoError(t, err)
	})

	t.Run("overlap is rejected with the conflicting bookings", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.roomsInProperty(room("r1"))
		f.runTransactions()
		f.repo.EXPECT().ReleaseExpiredHoldsTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.repo.EXPECT().ListOverlappingTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{
				stored("b2", "r1", "2026-03-03", "2026-03-05", availability.StatusCheckedIn),
				stored("b1", "r1", "2026-02-28", "2026-03-02", availability.StatusReserved),
			}, nil)

		before := testutil.ToFloat64(metrics.BookingConflictsTotal.WithLabelValues(metrics.ConflictScopeSingle))

		_, err := f.svc.Create(context.Background(), createRequest())
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))

		conflicts, ok := failure.GetDetails(err).([]dto.ConflictResponse)
		require.True(t, ok)
		require.Len(t, conflicts, 2)
		assert.Equal(t, "b1", conflicts[0].BookingID)
		assert.Equal(t, "b2", conflicts[1].BookingID)

		after := testutil.ToFloat64(metrics.BookingConflictsTotal.WithLabelValues(metrics.ConflictScopeSingle))
		assert.Equal(t, before+1, after)
	})

	t.Run("exclusion constraint wins a race", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.roomsInProperty(room("r1"))
		f.runTransactions()
		f.repo.EXPECT().ReleaseExpiredHoldsTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.repo.EXPECT().ListOverlappingTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&pq.Error{Code: constant.PqErrorCodeExclusionViolation})

		_, err := f.svc.Create(context.Background(), createRequest())
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	rejected := []struct {
		name     string
		mutate   func(req *dto.CreateBookingRequest)
		rooms    []roomModel.Room
		wantCode int
	}{
		{
			name:     "check-out before check-in",
			mutate:   func(req *dto.CreateBookingRequest) { req.CheckOut = "2026-02-27" },
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "zero nights",
			mutate:   func(req *dto.CreateBookingRequest) { req.CheckOut = req.CheckIn },
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "longer than the maximum stay",
			mutate:   func(req *dto.CreateBookingRequest) { req.CheckOut = "2026-05-01" },
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "hold deadline on a reserved booking",
			mutate:   func(req *dto.CreateBookingRequest) { req.AutoReleaseAt = ptr(now.Add(time.Hour)) },
			wantCode: http.StatusBadRequest,
		},
		{
			name: "hold deadline in the past",
			mutate: func(req *dto.CreateBookingRequest) {
				req.Status = string(availability.StatusTentative)
				req.AutoReleaseAt = ptr(now.Add(-time.Minute))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "room of another property",
			mutate:   func(*dto.CreateBookingRequest) {},
			rooms:    []roomModel.Room{{ID: "r1", PropertyID: "p2"}},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "room out of service",
			mutate:   func(*dto.CreateBookingRequest) {},
			rooms:    []roomModel.Room{{ID: "r1", PropertyID: "p1", Status: availability.RoomOutOfService}},
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)

			if tt.rooms != nil {
				f.roomsInProperty(tt.rooms...)
			}

			req := createRequest()
			tt.mutate(&req)

			_, err := f.svc.Create(context.Background(), req)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}

	t.Run("forbidden property", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(failure.PropertyRestrictedError)

		_, err := f.svc.Create(context.Background(), createRequest())
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestCreateGroup(t *testing.T) {
	req := dto.CreateGroupBookingRequest{
		PropertyID: "p1",
		RoomIDs:    []string{"r1", "r2", "r3"},
		Guest:      dto.Guest{GuestName: "Wedding party"},
		Stay:       dto.Stay{CheckIn: "2026-03-01", CheckOut: "2026-03-03"},
	}

	t.Run("books every room under one group", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.roomsInProperty(room("r1"), room("r2"), room("r3"))
		f.runTransactions()
		f.repo.EXPECT().ReleaseExpiredHoldsTx(gomock.Any(), gomock.Any(), req.RoomIDs, now).Return(nil, nil)
		f.repo.EXPECT().ListOverlappingTx(gomock.Any(), gomock.Any(), req.RoomIDs, gomock.Any(), gomock.Any()).Return(nil, nil)
		f.repo.EXPECT().InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Len(3)).Return(nil)

		res, err := f.svc.CreateGroup(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, res.Bookings, 3)
		assert.NotEmpty(t, res.GroupID)

		for _, booking := range res.Bookings {
			assert.Equal(t, res.GroupID, *booking.GroupID)
		}
	})

	t.Run("one busy room blocks the whole group", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.roomsInProperty(room("r1"), room("r2"), room("r3"))
		f.runTransactions()
		f.repo.EXPECT().ReleaseExpiredHoldsTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.repo.EXPECT().ListOverlappingTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{stored("b9", "r2", "2026-03-02", "2026-03-06", availability.StatusReserved)}, nil)

		_, err := f.svc.CreateGroup(context.Background(), req)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))

		results, ok := failure.GetDetails(err).([]dto.RoomResultResponse)
		require.True(t, ok)
		require.Len(t, results, 3)
		assert.True(t, results[0].Available)
		assert.False(t, results[1].Available)
		assert.Equal(t, "b9", results[1].Conflicts[0].BookingID)
		assert.True(t, results[2].Available)
	})

	t.Run("duplicate rooms", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)

		dup := req
		dup.RoomIDs = []string{"r1", "r1"}

		_, err := f.svc.CreateGroup(context.Background(), dup)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestTransition(t *testing.T) {
	hold := stored("b1", "r1", "2026-03-01", "2026-03-03", availability.StatusTentative)
	hold.AutoReleaseAt = ptr(now.Add(10 * time.Minute))

	t.Run("confirming a hold checks the room again", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hold, nil)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.runTransactions()
		f.repo.EXPECT().ReleaseExpiredHoldsTx(gomock.Any(), gomock.Any(), []string{"r1"}, now).Return([]string{}, nil)
		f.repo.EXPECT().ListOverlappingTx(gomock.Any(), gomock.Any(), []string{"r1"}, hold.CheckIn, hold.CheckOut).
			Return([]model.Booking{hold}, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, mod map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, "reserved", mod[model.FieldStatus])
				assert.Contains(t, mod, model.FieldAutoReleaseAt)
				assert.Nil(t, mod[model.FieldAutoReleaseAt])

				return 1, nil
			})

		res, err := f.svc.Transition(context.Background(), dto.TransitionRequest{Status: "reserved"}, "b1")
		require.NoError(t, err)
		assert.Equal(t, "reserved", res.Status)
		assert.Nil(t, res.AutoReleaseAt)
	})

	t.Run("confirming a hold releases expired holds on the room", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hold, nil)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.runTransactions()
		gomock.InOrder(
			f.repo.EXPECT().ReleaseExpiredHoldsTx(gomock.Any(), gomock.Any(), []string{"r1"}, now).Return([]string{"h9"}, nil),
			f.repo.EXPECT().ListOverlappingTx(gomock.Any(), gomock.Any(), []string{"r1"}, hold.CheckIn, hold.CheckOut).
				Return([]model.Booking{hold}, nil),
			f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil),
		)

		before := testutil.ToFloat64(metrics.HoldsReleasedTotal)

		res, err := f.svc.Transition(context.Background(), dto.TransitionRequest{Status: "reserved"}, "b1")
		require.NoError(t, err)
		assert.Equal(t, "reserved", res.Status)
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.HoldsReleasedTotal))
		f.assertEvicted("booking:get:h9", "booking:get:b1")
	})

	tests := []struct {
		name     string
		current  model.Booking
		status   string
		wantCode int
	}{
		{
			name:     "skipping a step",
			current:  stored("b1", "r1", "2026-03-01", "2026-03-03", availability.StatusReserved),
			status:   "checked_out",
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "leaving a terminal status",
			current:  stored("b1", "r1", "2026-03-01", "2026-03-03", availability.StatusCancelled),
			status:   "reserved",
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "confirming an expired hold",
			current: func() model.Booking {
				b := hold
				b.AutoReleaseAt = ptr(now.Add(-time.Minute))

				return b
			}(),
			status:   "reserved",
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "unknown status",
			current:  hold,
			status:   "no_show",
			wantCode: http.StatusBadRequest,
		},
		{
			name:    "same status",
			current: stored("b1", "r1", "2026-03-01", "2026-03-03", availability.StatusCheckedIn),
			status:  "checked_in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.current, nil)
			f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)

			res, err := f.svc.Transition(context.Background(), dto.TransitionRequest{Status: tt.status}, "b1")
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.status, res.Status)
		})
	}

	t.Run("check-in writes without a transaction", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(stored("b1", "r1", "2026-03-01", "2026-03-03", availability.StatusReserved), nil)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), nil, gomock.Any(), gomock.Any()).Return(int64(1), nil)

		res, err := f.svc.Transition(context.Background(), dto.TransitionRequest{Status: "checked_in"}, "b1")
		require.NoError(t, err)
		assert.Equal(t, "checked_in", res.Status)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("moving dates ignores the booking itself", func(t *testing.T) {
		f := newFixture(t)
		current := stored("b1", "r1", "2026-03-01", "2026-03-03", availability.StatusReserved)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.runTransactions()
		f.repo.EXPECT().ReleaseExpiredHoldsTx(gomock.Any(), gomock.Any(), []string{"r1"}, now).Return([]string{}, nil)
		f.repo.EXPECT().ListOverlappingTx(gomock.Any(), gomock.Any(), []string{"r1"}, day("2026-03-02"), day("2026-03-03")).
			Return([]model.Booking{current}, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, mod map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, "2026-03-02", mod[model.FieldCheckIn])
				assert.Equal(t, "2026-03-03", mod[model.FieldCheckOut])
				assert.NotContains(t, mod, model.FieldRoomID)

				return 1, nil
			})

		require.NoError(t, f.svc.Update(context.Background(), dto.UpdateBookingRequest{CheckIn: "2026-03-02"}, "b1"))
	})

	t.Run("moving onto a busy room", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(stored("b1", "r1", "2026-03-01", "2026-03-03", availability.StatusReserved), nil)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.roomsInProperty(room("r2"))
		f.runTransactions()
		f.repo.EXPECT().ReleaseExpiredHoldsTx(gomock.Any(), gomock.Any(), []string{"r2"}, now).Return([]string{}, nil)
		f.repo.EXPECT().ListOverlappingTx(gomock.Any(), gomock.Any(), []string{"r2"}, gomock.Any(), gomock.Any()).
			Return([]model.Booking{stored("b7", "r2", "2026-03-02", "2026-03-04", availability.StatusReserved)}, nil)

		err := f.svc.Update(context.Background(), dto.UpdateBookingRequest{RoomID: ptr("r2")}, "b1")
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("moving over an expired hold releases it", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(stored("b1", "r1", "2026-03-01", "2026-03-03", availability.StatusReserved), nil)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.roomsInProperty(room("r2"))
		f.runTransactions()
		gomock.InOrder(
			f.repo.EXPECT().ReleaseExpiredHoldsTx(gomock.Any(), gomock.Any(), []string{"r2"}, now).Return([]string{"h9"}, nil),
			f.repo.EXPECT().ListOverlappingTx(gomock.Any(), gomock.Any(), []string{"r2"}, day("2026-03-01"), day("2026-03-03")).
				Return([]model.Booking{}, nil),
			f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *sqlx.Tx, mod map[string]any, _ gDto.FilterGroup) (int64, error) {
					assert.Equal(t, "r2", mod[model.FieldRoomID])

					return 1, nil
				}),
		)

		require.NoError(t, f.svc.Update(context.Background(), dto.UpdateBookingRequest{RoomID: ptr("r2")}, "b1"))
		f.assertEvicted("booking:get:h9", "booking:get:b1")
	})

	t.Run("expired hold cannot move", func(t *testing.T) {
		f := newFixture(t)
		current := stored("b1", "r1", "2026-03-01", "2026-03-03", availability.StatusTentative)
		current.AutoReleaseAt = ptr(now.Add(-time.Minute))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)

		err := f.svc.Update(context.Background(), dto.UpdateBookingRequest{CheckOut: "2026-03-05"}, "b1")
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("finished booking keeps its dates", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(stored("b1", "r1", "2026-01-01", "2026-01-03", availability.StatusCheckedOut), nil)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)

		err := f.svc.Update(context.Background(), dto.UpdateBookingRequest{CheckOut: "2026-01-05"}, "b1")
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("guest details only", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(stored("b1", "r1", "2026-03-01", "2026-03-03", availability.StatusReserved), nil)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), nil, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, mod map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, "Ana Maria", mod[model.FieldGuestName])
				assert.Equal(t, 2, mod[model.FieldAdults])

				return 1, nil
			})

		err := f.svc.Update(context.Background(), dto.UpdateBookingRequest{GuestName: "Ana Maria", Adults: ptr(2)}, "b1")
		require.NoError(t, err)
	})
}

func TestReleaseExpiredHolds(t *testing.T) {
	expired := stored("b1", "r1", "2026-03-01", "2026-03-03", availability.StatusTentative)
	expired.AutoReleaseAt = ptr(now.Add(-time.Minute))

	confirmed := stored("b2", "r2", "2026-03-01", "2026-03-03", availability.StatusTentative)
	confirmed.AutoReleaseAt = ptr(now.Add(-time.Hour))

	t.Run("cross-property sweep needs a privileged caller", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RoleStaff)

		_, err := f.svc.ReleaseExpiredHolds(ctx, dto.ReleaseHoldsRequest{})
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("skips holds changed since listing", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.WithValue(context.Background(), constant.ContextKeyInternal, true)

		f.repo.EXPECT().ListExpiredHolds(gomock.Any(), "", now, 50).Return([]model.Booking{expired, confirmed}, nil)
		f.repo.EXPECT().ReleaseHold(gomock.Any(), "b1", now, constant.ContextSystem).Return(true, nil)
		f.repo.EXPECT().ReleaseHold(gomock.Any(), "b2", now, constant.ContextSystem).Return(false, nil)

		before := testutil.ToFloat64(metrics.HoldsReleasedTotal)

		res, err := f.svc.ReleaseExpiredHolds(ctx, dto.ReleaseHoldsRequest{Limit: 50})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Released)
		assert.Equal(t, []string{"b1"}, res.BookingIDs)
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.HoldsReleasedTotal))
		f.assertEvicted("booking:get:b1")
	})

	t.Run("property scoped", func(t *testing.T) {
		f := newFixture(t)
		f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
		f.repo.EXPECT().ListExpiredHolds(gomock.Any(), "p1", now, 0).Return([]model.Booking{}, nil)

		res, err := f.svc.ReleaseExpiredHolds(context.Background(), dto.ReleaseHoldsRequest{PropertyID: "p1"})
		require.NoError(t, err)
		assert.Zero(t, res.Released)
		assert.Empty(t, res.BookingIDs)
	})
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(stored("b1", "r1", "2026-03-01", "2026-03-03", availability.StatusCancelled), nil)
	f.guard.EXPECT().Authorize(gomock.Any(), "p1").Return(nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(int64(1), nil)

	require.NoError(t, f.svc.Delete(context.Background(), "b1"))
}
