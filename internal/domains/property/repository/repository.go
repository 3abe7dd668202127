package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/property/model"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	gRepo "innkeep/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Property interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Property) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Property, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Property, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, mod map[string]any, filter gDto.FilterGroup) (int64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Property]
}

func New(db *postgres.Connection, otel otel.Otel) Property {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Property](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

type Member interface {
	Insert(ctx context.Context, model model.Member) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Member) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Member, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) (int64, error)
	IsMember(ctx context.Context, propertyID, userID string) (bool, error)
	PropertyIDs(ctx context.Context, userID string) ([]string, error)
}

type memberRepositoryImpl struct {
	gRepo.Repository[model.Member]
	otel otel.Otel
}

func NewMember(db *postgres.Connection, otel otel.Otel) Member {
	return &memberRepositoryImpl{
		Repository: gRepo.NewRepository[model.Member](model.MemberEntityName, model.MemberTableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func MembershipFilter(propertyID, userID string) gDto.FilterGroup {
	return gDto.And(
		gDto.Filter{Field: model.FieldPropertyID, Table: model.MemberTableName, Operator: gDto.FilterOperatorEq, Value: propertyID},
		gDto.Filter{Field: model.FieldUserID, Table: model.MemberTableName, Operator: gDto.FilterOperatorEq, Value: userID},
	)
}

func (r *memberRepositoryImpl) IsMember(ctx context.Context, propertyID, userID string) (bool, error) {
	return r.Exist(ctx, MembershipFilter(propertyID, userID))
}

// PropertyIDs lists the properties userID belongs to.
func (r *memberRepositoryImpl) PropertyIDs(ctx context.Context, userID string) (ids []string, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".property_member.PropertyIDs")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := "SELECT property_id FROM property_members WHERE user_id = $1 ORDER BY property_id"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	ids = []string{}
	if err = sqlx.SelectContext(ctx, r.Reader(), &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list property ids: %w", err)
	}

	return ids, nil
}
