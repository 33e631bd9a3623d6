package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/sharemal/internal/http/bill"
	"github.com/MrJamesThe3rd/sharemal/internal/http/importcsv"
	"github.com/MrJamesThe3rd/sharemal/internal/http/response"
	"github.com/MrJamesThe3rd/sharemal/internal/metrics"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	AllowedOrigins []string
	// Timeout bounds each request; zero disables it.
	Timeout time.Duration
	DB      Pinger
}

func New(
	opts Options,
	billsV1 *bill.Handler,
	importV1 *importcsv.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Handle("/metrics", metrics.Handler())
	router.Get("/healthz", health(opts.DB))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/bills", func(r chi.Router) {
			r.Route("/import", importV1.Routes)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				billsV1.Routes(r)
			})
		})

		r.Route("/participants", billsV1.ParticipantRoutes)
	})

	return router
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}

		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
