package support

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Vovarama1992/support-hub/internal/ai"
	"github.com/Vovarama1992/support-hub/internal/logging"
)

type Handler struct {
	svc         Service
	log         *zerolog.Logger
	defaultMode Mode
}

func NewHandler(svc Service, log *zerolog.Logger, defaultMode Mode) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	if !defaultMode.Valid() {
		defaultMode = ModeReactive
	}
	return &Handler{svc: svc, log: log, defaultMode: defaultMode}
}

// HandleConfigure sets the backend API key at runtime.
func (h *Handler) HandleConfigure(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := h.svc.Configure(r.Context(), payload.APIKey); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	mode := h.defaultMode
	if payload.Mode != "" {
		m, err := ParseMode(payload.Mode)
		if err != nil {
			h.writeError(w, err)
			return
		}
		mode = m
	}

	sess, err := h.svc.Start(r.Context(), mode)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, NewView(sess))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewView(sess))
}

func (h *Handler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.End(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMessage submits user text. With Accept: text/event-stream the
// partial reply is streamed as "fragment" events followed by one
// "exchange" event; otherwise the exchange is returned as one JSON body.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(payload.Text) == "" {
		http.Error(w, "missing text", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")

	if !strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		ex, err := h.svc.Submit(r.Context(), id, payload.Text, nil)
		if err != nil {
			h.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ex)
		return
	}

	sse := newEventWriter(w)
	ex, err := h.svc.Submit(r.Context(), id, payload.Text, func(partial string) {
		sse.send("fragment", partial)
	})
	if err != nil {
		if !sse.started {
			h.writeError(w, err)
			return
		}
		sse.send("error", err.Error())
		return
	}
	sse.send("exchange", ex)
}

func (h *Handler) HandleMode(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	mode, err := ParseMode(payload.Mode)
	if err != nil {
		h.writeError(w, err)
		return
	}

	sess, err := h.svc.ChangeMode(r.Context(), chi.URLParam(r, "id"), mode)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewView(sess))
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewView(sess))
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Export(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", snap.FileName()))
	w.WriteHeader(http.StatusOK)
	if err := snap.Encode(w); err != nil {
		h.log.Error().Err(err).Msg("[http] export write failed")
	}
}

// ------------------------------------------------------------

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrDomainRejected):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ai.ErrMissingCredential):
		status = http.StatusPreconditionRequired
	case errors.Is(err, ai.ErrInvalidCredential), errors.Is(err, ErrInvalidMode):
		status = http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrExchangeInProgress), errors.Is(err, ErrNothingToExport):
		status = http.StatusConflict
	case errors.Is(err, ErrCredentialsDisabled):
		status = http.StatusMethodNotAllowed
	}

	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("[http] request failed")
		writeJSON(w, status, map[string]string{"error": "processing error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// eventWriter writes server-sent events, sending headers on first use.
type eventWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func newEventWriter(w http.ResponseWriter) *eventWriter {
	f, _ := w.(http.Flusher)
	return &eventWriter{w: w, flusher: f}
}

func (e *eventWriter) send(event string, v any) {
	if !e.started {
		e.w.Header().Set("Content-Type", "text/event-stream")
		e.w.Header().Set("Cache-Control", "no-cache")
		e.w.Header().Set("Connection", "keep-alive")
		e.w.WriteHeader(http.StatusOK)
		e.started = true
	}

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", event, data)
	if e.flusher != nil {
		e.flusher.Flush()
	}
}
