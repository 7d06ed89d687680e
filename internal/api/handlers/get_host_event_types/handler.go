package get_host_event_types

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

const (
	msgInvalidHostID = "некорректный ID хоста"
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	service EventTypeService
	logger  Logger
}

func NewHandler(service EventTypeService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/hosts/{hostId}/event-types
// Query params: onlyActive (опционально, по умолчанию false)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostID, err := strconv.ParseInt(mux.Vars(r)["hostId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /hosts/{id}/event-types - Invalid host ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHostID)
		return
	}

	onlyActive := false
	if raw := r.URL.Query().Get("onlyActive"); raw != "" {
		onlyActive, err = strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /hosts/{id}/event-types - Invalid onlyActive: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
	}

	result, err := h.service.ListByHost(r.Context(), hostID, onlyActive)
	if err != nil {
		h.logger.Error("GET /hosts/{id}/event-types - Failed to list event types: host_id=%d, error=%v", hostID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
