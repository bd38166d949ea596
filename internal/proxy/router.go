package proxy

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/five82/weekplan/internal/httpserver"
)

// NewHandler returns the proxy's HTTP handler:
//
//	GET    /api/items        list (500 "Failed to fetch items" on any failure)
//	GET    /api/items/{id}   get
//	POST   /api/items        create, 201 on success
//	PUT    /api/items/{id}   update
//	DELETE /api/items/{id}   delete, upstream body echoed
//	GET    /api/version      version passthrough
//	GET    /health           liveness
//
// POST and PUT reject bodies whose date is not DD-MM-YYYY with 400 before
// contacting the upstream.
func NewHandler(upstream Forwarder, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	h := &itemsHandler{
		upstream: upstream,
		tracer:   otel.Tracer(instrumentationName),
		log:      log,
	}

	r := chi.NewRouter()
	r.Use(httpserver.RequestID)
	r.Use(httpserver.AccessLog(log))
	r.Use(httpserver.Recover(log))

	r.Get("/health", httpserver.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.version)
		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.list)
			r.Post("/", h.create)
			r.Get("/{id}", h.get)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.remove)
		})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpserver.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpserver.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return otelhttp.NewHandler(r, "weekplan-proxy",
		otelhttp.WithMessageEvents(otelhttp.ReadEvents, otelhttp.WriteEvents),
	)
}
