package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/availability"
	"innkeep/internal/domains/room/model"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	gRepo "innkeep/shared/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, mod map[string]any, filter gDto.FilterGroup) (int64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) (int64, error)
	ListByProperty(ctx context.Context, propertyID string) ([]model.Room, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Room, error)
	CountByStatus(ctx context.Context, propertyID string) (map[availability.RoomStatus]int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// ListByProperty returns the full roster of a property ordered by room number.
func (r *repositoryImpl) ListByProperty(ctx context.Context, propertyID string) ([]model.Room, error) {
	params := gDto.QueryParams{SortBy: model.FieldNumber, SortDir: gDto.SortDirAsc}

	return r.GetAll(ctx, params, shared.FilterByField(model.FieldPropertyID, propertyID, model.TableName))
}

func (r *repositoryImpl) ListByIDs(ctx context.Context, ids []string) ([]model.Room, error) {
	if len(ids) == 0 {
		return []model.Room{}, nil
	}

	filter := gDto.And(gDto.Filter{Field: model.FieldID, Table: model.TableName, Operator: gDto.FilterOperatorIn, Value: ids})

	return r.GetAll(ctx, gDto.QueryParams{}, filter)
}

// CountByStatus groups the rooms of a property by housekeeping status.
// Statuses without rooms are reported as zero.
func (r *repositoryImpl) CountByStatus(ctx context.Context, propertyID string) (res map[availability.RoomStatus]int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.CountByStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	query, args, err := sq.Select(model.FieldStatus, "COUNT(*) AS total").
		From(model.TableName).
		Where(sq.Eq{model.FieldPropertyID: propertyID}).
		GroupBy(model.FieldStatus).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build room status query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows := []model.StatusCount{}
	if err = sqlx.SelectContext(ctx, r.Reader(), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count rooms by status: %w", err)
	}

	res = make(map[availability.RoomStatus]int, len(availability.RoomStatuses()))
	for _, status := range availability.RoomStatuses() {
		res[status] = 0
	}

	for _, row := range rows {
		res[row.Status] = row.Total
	}

	return res, nil
}
