package create_event_type

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/eventtypes/models"
)

const (
	msgInvalidHostID      = "некорректный ID хоста"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidEventType   = "некорректные параметры типа события"
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

// Handle POST /api/v1/hosts/{hostId}/event-types
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostID, err := strconv.ParseInt(mux.Vars(r)["hostId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /hosts/{id}/event-types - Invalid host ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHostID)
		return
	}

	var req models.CreateEventTypeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /hosts/{id}/event-types - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), hostID, &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRange) {
			h.logger.Warn("POST /hosts/{id}/event-types - Invalid event type: host_id=%d, error=%v", hostID, err)
			handlers.RespondError(w, http.StatusBadRequest, msgInvalidEventType+": "+err.Error())
			return
		}
		h.logger.Error("POST /hosts/{id}/event-types - Failed to create event type: host_id=%d, error=%v", hostID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /hosts/{id}/event-types - Event type created: host_id=%d, event_type_id=%d", hostID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
