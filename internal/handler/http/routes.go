package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init returns the router of the reference remote. Record routes require a
// device token.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging, withGZip)

	router.Get("/api/health", h.health)

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/records/{collection}/{key}", h.getRecord)
		r.Put("/api/records/{collection}/{key}", h.putRecord)
		r.Delete("/api/records/{collection}/{key}", h.deleteRecord)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

// InitLocal returns the router of the local engine API. It is meant to
// listen on a loopback address and carries no authentication.
func (h *Handler) InitLocal() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging)

	router.Delete("/api/data", h.clearOfflineData)
	router.Get("/api/data/{collection}", h.listData)
	router.Put("/api/data/{collection}", h.saveData)
	router.Get("/api/data/{collection}/{key}", h.loadData)
	router.Delete("/api/data/{collection}/{key}", h.deleteData)

	router.Get("/api/status", h.offlineStatus)
	router.Post("/api/sync", h.forceSync)

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
