// Package httpapi exposes the portal operations over HTTP.
package httpapi

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Freeeeeet/glee_portal/internal/httpapi/handlers"
)

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Router struct {
	mux *http.ServeMux
}

func NewRouter(
	notifications *handlers.NotificationHandler,
	auditions *handlers.AuditionHandler,
	appointments *handlers.AppointmentHandler,
	gatherer prometheus.Gatherer,
	db Pinger,
) *Router {
	mux := http.NewServeMux()
	notifications.Register(mux)
	auditions.Register(mux)
	appointments.Register(mux)

	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("database unavailable"))
				return
			}
		}
		_, _ = w.Write([]byte("ok"))
	})

	return &Router{mux: mux}
}

func (r *Router) Handler() http.Handler {
	return r.mux
}
