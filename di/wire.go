//go:build wireinject
// +build wireinject

package di

import (
	"innkeep/config"
	"innkeep/infras/jwt"
	"innkeep/infras/kafka"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/infras/redis"
	"innkeep/infras/s3"
	"innkeep/internal/access"
	"innkeep/internal/worker"
	"innkeep/permissions"
	"innkeep/shared/cache"
	"innkeep/shared/timezone"
	"innkeep/transport/http"
	"innkeep/transport/http/middleware"
	"innkeep/transport/http/router"

	"github.com/google/wire"

	activityRepository "innkeep/internal/domains/activity/repository"
	activityService "innkeep/internal/domains/activity/service"
	authService "innkeep/internal/domains/auth/service"
	availabilityService "innkeep/internal/domains/availability/service"
	bookingRepository "innkeep/internal/domains/booking/repository"
	bookingService "innkeep/internal/domains/booking/service"
	categoryRepository "innkeep/internal/domains/category/repository"
	categoryService "innkeep/internal/domains/category/service"
	dashboardService "innkeep/internal/domains/dashboard/service"
	propertyRepository "innkeep/internal/domains/property/repository"
	propertyService "innkeep/internal/domains/property/service"
	roomRepository "innkeep/internal/domains/room/repository"
	roomService "innkeep/internal/domains/room/service"
	userRepository "innkeep/internal/domains/user/repository"
	userService "innkeep/internal/domains/user/service"

	activityHandler "innkeep/internal/handlers/activity"
	authHandler "innkeep/internal/handlers/auth"
	availabilityHandler "innkeep/internal/handlers/availability"
	bookingHandler "innkeep/internal/handlers/booking"
	categoryHandler "innkeep/internal/handlers/category"
	dashboardHandler "innkeep/internal/handlers/dashboard"
	propertyHandler "innkeep/internal/handlers/property"
	roomHandler "innkeep/internal/handlers/room"
	userHandler "innkeep/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	timezone.NewClock,
	provideMemberships,
	access.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
)

var propertyDomain = wire.NewSet(
	propertyRepository.New,
	propertyRepository.NewMember,
	propertyService.New,
	categoryRepository.New,
	categoryService.New,
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	activityRepository.New,
	activityService.New,
	bookingRepository.New,
	bookingService.New,
	availabilityService.New,
	dashboardService.New,
)

var domains = wire.NewSet(
	userDomain,
	propertyDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	propertyHandler.New,
	categoryHandler.New,
	roomHandler.New,
	bookingHandler.New,
	availabilityHandler.New,
	dashboardHandler.New,
	activityHandler.New,
	router.New,
)

var workers = wire.NewSet(
	worker.NewHoldSweeper,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		workers,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}

func InitializeSweeper() *Sweeper {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		domains,
		workers,
		wire.Struct(new(Sweeper), "*"),
	)

	return &Sweeper{}
}
