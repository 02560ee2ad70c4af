package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"erp-core/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
// allowedOrigins is a comma-separated list; empty disables CORS.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if allowedOrigins != "" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   splitAndTrim(allowedOrigins),
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
			AllowCredentials: true,
		}))
	}

	r.Get("/api/health", h.health)
	r.Post("/api/numbering/next", h.nextNumber)
	r.Post("/api/rates/resolve", h.resolveRate)
	r.Post("/api/rates/ledgers", h.resolveLedgerRates)

	h.router = r
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Health(r.Context()); err != nil {
		writeError(w, r, "database unreachable", "UNHEALTHY", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) nextNumber(w http.ResponseWriter, r *http.Request) {
	var req app.NumberRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.svc.NextDocumentNumber(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) resolveRate(w http.ResponseWriter, r *http.Request) {
	var req app.RateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.svc.ResolveRate(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) resolveLedgerRates(w http.ResponseWriter, r *http.Request) {
	var req app.LedgerRatesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.svc.ResolveLedgerRates(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
