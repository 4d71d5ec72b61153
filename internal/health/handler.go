package health

import (
	"net/http"

	"student-records/internal/httputil"

	"github.com/go-chi/chi/v5"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.Health)
	router.Get("/ready", h.Ready)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithData(w, http.StatusOK, "Server is running", map[string]string{"status": "ok"})
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithData(w, http.StatusOK, "Server is ready", map[string]string{"status": "ready"})
}
