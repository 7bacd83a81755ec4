package support

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Vovarama1992/support-hub/internal/logging"
)

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/credentials", h.HandleConfigure)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.HandleStart)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Delete("/", h.HandleEnd)
			r.Post("/messages", h.HandleMessage)
			r.Put("/mode", h.HandleMode)
			r.Post("/reset", h.HandleReset)
			r.Get("/dashboard", h.HandleDashboard)
			r.Get("/export", h.HandleExport)
		})
	})
}

// RequestLogger logs one line per request and exposes the request id as
// the trace_id of every log line written while serving it.
func RequestLogger(log *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			reqID := middleware.GetReqID(r.Context())
			if reqID != "" {
				r = r.WithContext(logging.WithTraceID(r.Context(), reqID))
			}

			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", reqID).
				Msg("[http] request")
		})
	}
}
