package update_event_type

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/eventtypes"
	"github.com/m04kA/SMC-SchedulingService/internal/service/eventtypes/models"
)

const (
	msgInvalidHostID      = "некорректный ID хоста"
	msgInvalidEventTypeID = "некорректный ID типа события"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "тип события не найден"
	msgForbidden          = "доступ запрещен"
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

// Handle PATCH /api/v1/hosts/{hostId}/event-types/{eventTypeId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	hostID, err := strconv.ParseInt(vars["hostId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /hosts/{id}/event-types/{id} - Invalid host ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHostID)
		return
	}

	eventTypeID, err := strconv.ParseInt(vars["eventTypeId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /hosts/{id}/event-types/{id} - Invalid event type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEventTypeID)
		return
	}

	var req models.UpdateEventTypeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /hosts/{id}/event-types/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), hostID, eventTypeID, &req)
	if err != nil {
		switch {
		case errors.Is(err, eventtypes.ErrEventTypeNotFound):
			h.logger.Warn("PATCH /hosts/{id}/event-types/{id} - Event type not found: event_type_id=%d", eventTypeID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, eventtypes.ErrAccessDenied):
			h.logger.Warn("PATCH /hosts/{id}/event-types/{id} - Access denied: host_id=%d, event_type_id=%d",
				hostID, eventTypeID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidRange):
			h.logger.Warn("PATCH /hosts/{id}/event-types/{id} - Invalid data: event_type_id=%d, error=%v", eventTypeID, err)
			handlers.RespondBadRequest(w, msgInvalidEventType+": "+err.Error())

		default:
			h.logger.Error("PATCH /hosts/{id}/event-types/{id} - Failed to update event type: event_type_id=%d, error=%v",
				eventTypeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /hosts/{id}/event-types/{id} - Event type updated: host_id=%d, event_type_id=%d", hostID, eventTypeID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
