package booking_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	otelMocks "innkeep/infras/otel/mocks"
	"innkeep/internal/domains/booking/mocks"
	"innkeep/internal/domains/booking/model/dto"
	"innkeep/internal/handlers/booking"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
)

func newRouter(t *testing.T) (http.Handler, *mocks.MockBookingService) {
	t.Helper()

	svc := mocks.NewMockBookingService(gomock.NewController(t))
	handler := booking.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	return rec
}

const createBody = `{
	"property_id": "0b5c0d4e-8f3a-4a55-9d55-3c1f3c1b2a10",
	"room_id": "7d1f8c0e-9a5b-4f2e-8c31-6a3c3d2e1f00",
	"guest_name": "Ada Lovelace",
	"check_in": "2026-03-01",
	"check_out": "2026-03-04"
}`

func TestCreateBooking(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error) {
				assert.Equal(t, "Ada Lovelace", req.GuestName)
				assert.Equal(t, "2026-03-04", req.CheckOut)

				return dto.BookingResponse{ID: "b1", Status: "reserved", Nights: 3}, nil
			})

		rec := do(router, http.MethodPost, "/bookings", createBody)
		require.Equal(t, http.StatusCreated, rec.Code)

		var body struct {
			Data dto.BookingResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "b1", body.Data.ID)
		assert.Equal(t, 3, body.Data.Nights)
	})

	t.Run("conflict carries the overlapping bookings", func(t *testing.T) {
		router, svc := newRouter(t)
		conflicts := []dto.ConflictResponse{{BookingID: "b9", CheckIn: "2026-03-02", CheckOut: "2026-03-05", Status: "reserved"}}
		svc.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(dto.BookingResponse{}, failure.ConflictWithDetails("room is already booked for these dates", conflicts))

		rec := do(router, http.MethodPost, "/bookings", createBody)
		require.Equal(t, http.StatusConflict, rec.Code)

		var body struct {
			Error   string                 `json:"error"`
			Details []dto.ConflictResponse `json:"details"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Details, 1)
		assert.Equal(t, "b9", body.Details[0].BookingID)
	})

	t.Run("malformed body never reaches the service", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := do(router, http.MethodPost, "/bookings", `{"guest_name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing dates", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := do(router, http.MethodPost, "/bookings", `{"property_id":"0b5c0d4e-8f3a-4a55-9d55-3c1f3c1b2a10","guest_name":"Ada"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetBookings(t *testing.T) {
	t.Run("window and status filters", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error) {
				assert.Equal(t, 2, params.Page)

				where, args := filter.GetWhereClause()
				assert.Contains(t, where, "bookings.check_out > :window_from")
				assert.Contains(t, where, "bookings.check_in < :window_to")
				assert.Equal(t, "2026-03-01", args["window_from"])
				assert.Equal(t, "2026-04-01", args["window_to"])
				assert.Equal(t, "tentative", args["status"])

				return dto.GetBookingsResponse{}, nil
			})

		rec := do(router, http.MethodGet, "/bookings?page=2&status=tentative&from=2026-03-01&to=2026-04-01", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	tests := []struct {
		name  string
		query string
	}{
		{name: "unknown status", query: "status=pending"},
		{name: "bad day", query: "from=03/01/2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newRouter(t)

			rec := do(router, http.MethodGet, "/bookings?"+tt.query, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetBookingsSort(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantSortBy  string
		wantSortDir string
	}{
		{name: "allowed column", query: "sort_by=check_in&sort_dir=asc", wantSortBy: "check_in", wantSortDir: gDto.SortDirAsc},
		{name: "subquery falls back", query: "sort_by=(SELECT+pg_sleep(10))&sort_dir=asc", wantSortBy: "created_at", wantSortDir: gDto.SortDirAsc},
		{name: "foreign column falls back", query: "sort_by=users.password", wantSortBy: "created_at", wantSortDir: gDto.SortDirDesc},
		{name: "defaults", wantSortBy: "created_at", wantSortDir: gDto.SortDirDesc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newRouter(t)
			svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup) (dto.GetBookingsResponse, error) {
					assert.Equal(t, tt.wantSortBy, params.SortBy)
					assert.Equal(t, tt.wantSortDir, params.SortDir)

					return dto.GetBookingsResponse{}, nil
				})

			rec := do(router, http.MethodGet, "/bookings?"+tt.query, "")
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestTransitionBooking(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().Transition(gomock.Any(), dto.TransitionRequest{Status: "checked_in"}, "b1").
		Return(dto.BookingResponse{}, failure.Unprocessable("illegal transition from tentative to checked_in"))

	rec := do(router, http.MethodPost, "/bookings/b1/status", `{"status":"checked_in"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestReleaseExpiredHolds(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().ReleaseExpiredHolds(gomock.Any(), dto.ReleaseHoldsRequest{Limit: 50}).
		Return(dto.ReleaseHoldsResponse{Released: 2, BookingIDs: []string{"b1", "b2"}}, nil)

	rec := do(router, http.MethodPost, "/bookings/holds/release", `{"limit":50}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"released":2`)
}
