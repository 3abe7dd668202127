package router

import (
	"innkeep/internal/handlers/activity"
	"innkeep/internal/handlers/auth"
	"innkeep/internal/handlers/availability"
	"innkeep/internal/handlers/booking"
	"innkeep/internal/handlers/category"
	"innkeep/internal/handlers/dashboard"
	"innkeep/internal/handlers/property"
	"innkeep/internal/handlers/room"
	"innkeep/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	User         user.Handler
	Property     property.Handler
	Category     category.Handler
	Room         room.Handler
	Booking      booking.Handler
	Availability availability.Handler
	Dashboard    dashboard.Handler
	Activity     activity.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Property.Router(routerGroup)
		r.DomainHandlers.Category.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Availability.Router(routerGroup)
		r.DomainHandlers.Dashboard.Router(routerGroup)
		r.DomainHandlers.Activity.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
