package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"hytta/internal/bookings/store"
	httputil "hytta/pkg/http"
	"hytta/pkg/logger"
	"hytta/pkg/storage"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage,omitempty"`
}

type HealthHandler struct {
	storage storage.Store
	log     *logger.Logger
}

func NewHealthHandler(st storage.Store, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		storage: st,
		log:     log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready probes the durable store with a read of the booking key. A missing
// key is still ready; only an unreadable store is not.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, _, err := h.storage.Get(store.BookingsKey); err != nil {
		h.log.Error("Storage health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "unavailable",
			Storage: "error",
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "ready",
		Storage: "ok",
	})
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
