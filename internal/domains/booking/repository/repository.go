package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/availability"
	"innkeep/internal/domains/booking/model"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	gRepo "innkeep/shared/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type Booking interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, mod map[string]any, filter gDto.FilterGroup) (int64, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter gDto.FilterGroup) (int64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) (int64, error)
	ListOverlappingTx(ctx context.Context, sqltx *sqlx.Tx, roomIDs []string, checkIn, checkOut time.Time) ([]model.Booking, error)
	ListInWindow(ctx context.Context, propertyID string, from, to time.Time) ([]model.Booking, error)
	ListExpiredHolds(ctx context.Context, propertyID string, now time.Time, limit int) ([]model.Booking, error)
	ReleaseHold(ctx context.Context, id string, now time.Time, actor string) (bool, error)
	ReleaseExpiredHoldsTx(ctx context.Context, sqltx *sqlx.Tx, roomIDs []string, now time.Time) ([]string, error)
	DayCounts(ctx context.Context, propertyID string, day, now time.Time) (model.DayCounts, error)
}

var columns = []string{
	model.FieldID,
	model.FieldPropertyID,
	model.FieldRoomID,
	model.FieldGroupID,
	model.FieldGuestName,
	model.FieldGuestEmail,
	model.FieldGuestPhone,
	model.FieldAdults,
	model.FieldChildren,
	model.FieldCheckIn,
	model.FieldCheckOut,
	model.FieldStatus,
	model.FieldAutoReleaseAt,
	model.FieldNotes,
	constant.FieldCreatedAt,
	constant.FieldCreatedBy,
	constant.FieldModifiedAt,
	constant.FieldModifiedBy,
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking."+op)
}

func (r *repositoryImpl) selectBookings(ctx context.Context, db sqlx.QueryerContext, scope otel.Scope, builder sq.SelectBuilder) ([]model.Booking, error) {
	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build booking query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	bookings := []model.Booking{}
	if err = sqlx.SelectContext(ctx, db, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select bookings: %w", err)
	}

	return bookings, nil
}

// ListOverlappingTx returns the non-cancelled bookings of roomIDs whose stay
// intersects [checkIn, checkOut). Dates are bound as YYYY-MM-DD so they compare as DATE.
func (r *repositoryImpl) ListOverlappingTx(ctx context.Context, sqltx *sqlx.Tx, roomIDs []string, checkIn, checkOut time.Time) (res []model.Booking, err error) {
	ctx, scope := r.scope(ctx, "ListOverlapping")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(roomIDs) == 0 {
		return []model.Booking{}, nil
	}

	builder := sq.Select(columns...).
		From(model.TableName).
		Where(sq.Eq{model.FieldRoomID: roomIDs}).
		Where(sq.NotEq{model.FieldStatus: availability.StatusCancelled}).
		Where(sq.Lt{model.FieldCheckIn: shared.FormatDay(checkOut)}).
		Where(sq.Gt{model.FieldCheckOut: shared.FormatDay(checkIn)}).
		OrderBy(model.FieldCheckIn, model.FieldID)

	return r.selectBookings(ctx, r.Executor(sqltx), scope, builder)
}

// ListInWindow returns the non-cancelled bookings of a property touching [from, to).
func (r *repositoryImpl) ListInWindow(ctx context.Context, propertyID string, from, to time.Time) (res []model.Booking, err error) {
	ctx, scope := r.scope(ctx, "ListInWindow")
	defer scope.End()
	defer scope.TraceIfError(err)

	builder := sq.Select(columns...).
		From(model.TableName).
		Where(sq.Eq{model.FieldPropertyID: propertyID}).
		Where(sq.NotEq{model.FieldStatus: availability.StatusCancelled}).
		Where(sq.Lt{model.FieldCheckIn: shared.FormatDay(to)}).
		Where(sq.Gt{model.FieldCheckOut: shared.FormatDay(from)}).
		OrderBy(model.FieldCheckIn, model.FieldID)

	return r.selectBookings(ctx, r.Reader(), scope, builder)
}

// ListExpiredHolds returns tentative bookings whose deadline passed, oldest
// first. An empty propertyID searches every property.
func (r *repositoryImpl) ListExpiredHolds(ctx context.Context, propertyID string, now time.Time, limit int) (res []model.Booking, err error) {
	ctx, scope := r.scope(ctx, "ListExpiredHolds")
	defer scope.End()
	defer scope.TraceIfError(err)

	builder := sq.Select(columns...).
		From(model.TableName).
		Where(sq.Eq{model.FieldStatus: availability.StatusTentative}).
		Where(sq.Lt{model.FieldAutoReleaseAt: now}).
		OrderBy(model.FieldAutoReleaseAt, model.FieldID)

	if propertyID != constant.Empty {
		builder = builder.Where(sq.Eq{model.FieldPropertyID: propertyID})
	}

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	return r.selectBookings(ctx, r.Reader(), scope, builder)
}

func releaseHolds(now time.Time, actor string) sq.UpdateBuilder {
	return sq.Update(model.TableName).
		Set(model.FieldStatus, availability.StatusCancelled).
		Set(model.FieldAutoReleaseAt, nil).
		Set(constant.FieldModifiedAt, now).
		Set(constant.FieldModifiedBy, actor).
		Where(sq.Eq{model.FieldStatus: availability.StatusTentative}).
		Where(sq.Lt{model.FieldAutoReleaseAt: now}).
		PlaceholderFormat(sq.Dollar)
}

// ReleaseHold cancels one expired hold. It reports false when the booking was
// confirmed or cancelled since it was listed.
func (r *repositoryImpl) ReleaseHold(ctx context.Context, id string, now time.Time, actor string) (released bool, err error) {
	ctx, scope := r.scope(ctx, "ReleaseHold")
	defer scope.End()
	defer scope.TraceIfError(err)

	query, args, err := releaseHolds(now, actor).Where(sq.Eq{model.FieldID: id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build release query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := r.Executor(nil).ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to release hold: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read released rows: %w", err)
	}

	return affected > 0, nil
}

// ReleaseExpiredHoldsTx cancels the expired holds sitting on roomIDs and
// returns their ids.
func (r *repositoryImpl) ReleaseExpiredHoldsTx(ctx context.Context, sqltx *sqlx.Tx, roomIDs []string, now time.Time) (ids []string, err error) {
	ctx, scope := r.scope(ctx, "ReleaseExpiredHolds")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(roomIDs) == 0 {
		return []string{}, nil
	}

	query, args, err := releaseHolds(now, constant.ContextSystem).
		Where(sq.Eq{model.FieldRoomID: roomIDs}).
		Suffix("RETURNING " + model.FieldID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build release query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	ids = []string{}
	if err = sqlx.SelectContext(ctx, r.Executor(sqltx), &ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to release expired holds: %w", err)
	}

	return ids, nil
}

// DayCounts reports front-desk movements of a property on day.
func (r *repositoryImpl) DayCounts(ctx context.Context, propertyID string, day, now time.Time) (res model.DayCounts, err error) {
	ctx, scope := r.scope(ctx, "DayCounts")
	defer scope.End()
	defer scope.TraceIfError(err)

	date := shared.FormatDay(day)

	query, args, err := sq.Select().
		Column(sq.Expr("COUNT(*) FILTER (WHERE check_in = ? AND status IN (?, ?)) AS arrivals",
			date, availability.StatusReserved, availability.StatusCheckedIn)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE check_out = ? AND status IN (?, ?)) AS departures",
			date, availability.StatusCheckedIn, availability.StatusCheckedOut)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ?) AS in_house", availability.StatusCheckedIn)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ? AND auto_release_at >= ?) AS pending_holds",
			availability.StatusTentative, now)).
		From(model.TableName).
		Where(sq.Eq{model.FieldPropertyID: propertyID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return res, fmt.Errorf("failed to build day count query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = sqlx.GetContext(ctx, r.Reader(), &res, query, args...); err != nil {
		return res, fmt.Errorf("failed to count bookings of the day: %w", err)
	}

	return res, nil
}
