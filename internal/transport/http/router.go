package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	invhandler "argus/internal/investigation/handler"
	"argus/pkg/platform/middleware/auth"
)

// NewRouter assembles the API surface. The investigation endpoints sit behind
// auth; health and metrics stay open for probes and scrapers.
func NewRouter(h *invhandler.Handler, authCfg auth.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(authCfg, logger))
		h.Register(r)
	})

	return r
}
