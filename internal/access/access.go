// Package access decides whether the caller in a request context may act on a property.
package access

//go:generate go run go.uber.org/mock/mockgen -source=./access.go -destination=./mocks/access_mock.go -package=mocks

import (
	"context"
	"fmt"
	"innkeep/infras/otel"
	"innkeep/shared/constant"
	"innkeep/shared/dto"
	"innkeep/shared/failure"

	"github.com/rs/zerolog/log"
)

// Memberships answers property membership questions for a user.
type Memberships interface {
	IsMember(ctx context.Context, propertyID, userID string) (bool, error)
	PropertyIDs(ctx context.Context, userID string) ([]string, error)
}

// Scope is the set of properties a caller may see. All is set for
// superadmins and internal callers.
type Scope struct {
	All         bool
	PropertyIDs []string
}

// Filter restricts a listing to the scope. It returns false when the scope is
// unrestricted and no filter is needed.
func (s Scope) Filter(field, table string) (dto.Filter, bool) {
	if s.All {
		return dto.Filter{}, false
	}

	ids := s.PropertyIDs
	if len(ids) == 0 {
		// IN () is invalid SQL, so an empty scope matches nothing explicitly.
		return dto.Filter{Operator: dto.FilterPlainQuery, Value: "1 = 0"}, true
	}

	return dto.Filter{Field: field, Table: table, ArgName: "scope_" + field, Operator: dto.FilterOperatorIn, Value: ids}, true
}

// Allows reports whether propertyID falls inside the scope.
func (s Scope) Allows(propertyID string) bool {
	if s.All {
		return true
	}

	for _, id := range s.PropertyIDs {
		if id == propertyID {
			return true
		}
	}

	return false
}

type Guard interface {
	Authorize(ctx context.Context, propertyID string) error
	Properties(ctx context.Context) (Scope, error)
}

type guardImpl struct {
	members Memberships
	otel    otel.Otel
}

func New(members Memberships, otel otel.Otel) Guard {
	return &guardImpl{
		members: members,
		otel:    otel,
	}
}

// Privileged reports whether the context belongs to a superadmin or an internal caller.
func Privileged(ctx context.Context) bool {
	if internal, _ := ctx.Value(constant.ContextKeyInternal).(bool); internal {
		return true
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return role == constant.RoleSuperAdmin
}

// Authorize fails with 403 unless the caller may act on propertyID.
func (g *guardImpl) Authorize(ctx context.Context, propertyID string) (err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".access.Authorize")
	defer scope.End()
	defer scope.TraceIfError(err)

	if Privileged(ctx) {
		return nil
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == "" {
		return failure.Unauthorized("authentication required") //nolint:wrapcheck
	}

	member, err := g.members.IsMember(ctx, propertyID, userID)
	if err != nil {
		log.Error().Err(err).Str("property_id", propertyID).Msg("failed to check property membership")

		return fmt.Errorf("failed to check property membership: %w", err)
	}

	if !member {
		return failure.PropertyRestrictedError
	}

	return nil
}

func (g *guardImpl) Properties(ctx context.Context) (res Scope, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".access.Properties")
	defer scope.End()
	defer scope.TraceIfError(err)

	if Privileged(ctx) {
		return Scope{All: true}, nil
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == "" {
		return res, failure.Unauthorized("authentication required") //nolint:wrapcheck
	}

	ids, err := g.members.PropertyIDs(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to list property memberships")

		return res, fmt.Errorf("failed to list property memberships: %w", err)
	}

	return Scope{PropertyIDs: ids}, nil
}
