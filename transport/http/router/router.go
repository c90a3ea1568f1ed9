package router

import (
	"tablebook/internal/handlers/reservation"

	"github.com/go-chi/chi/v5"
)

const apiPrefix = "/v1"

// DomainHandlers is filled by wire with every HTTP handler of the service.
type DomainHandlers struct {
	Reservation reservation.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}

// SetupRoutes mounts the versioned API, currently the single action-dispatched
// reservations endpoint.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route(apiPrefix, r.DomainHandlers.Reservation.Router)
}
