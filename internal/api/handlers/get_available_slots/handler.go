package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidHostID      = "некорректный ID хоста"
	msgInvalidEventTypeID = "некорректный ID типа события"
	msgMissingRange       = "параметры start и end обязательны"
	msgInvalidRange       = "некорректный период или часовой пояс, ожидается YYYY-MM-DD и IANA зона"
	msgRangeTooLong       = "период слишком длинный"
	msgEventTypeNotFound  = "тип события не найден"
	msgEventTypeInactive  = "тип события отключен"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/hosts/{hostId}/event-types/{eventTypeId}/available-slots
// Query params: start, end (required, YYYY-MM-DD), timezone (optional, IANA)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	hostID, err := strconv.ParseInt(vars["hostId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /hosts/{id}/event-types/{id}/available-slots - Invalid host ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHostID)
		return
	}

	eventTypeID, err := strconv.ParseInt(vars["eventTypeId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /hosts/{id}/event-types/{id}/available-slots - Invalid event type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEventTypeID)
		return
	}

	query := r.URL.Query()
	start, end := query.Get("start"), query.Get("end")
	if start == "" || end == "" {
		h.logger.Warn("GET /hosts/{id}/event-types/{id}/available-slots - Missing range: host_id=%d", hostID)
		handlers.RespondBadRequest(w, msgMissingRange)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ToUseCaseRequest(hostID, eventTypeID, start, end, query.Get("timezone")))
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrEventTypeNotFound):
			h.logger.Warn("GET /hosts/{id}/event-types/{id}/available-slots - Event type not found: host_id=%d, event_type_id=%d",
				hostID, eventTypeID)
			handlers.RespondNotFound(w, msgEventTypeNotFound)

		case errors.Is(err, getAvailableSlots.ErrEventTypeInactive):
			h.logger.Warn("GET /hosts/{id}/event-types/{id}/available-slots - Event type inactive: host_id=%d, event_type_id=%d",
				hostID, eventTypeID)
			handlers.RespondNotFound(w, msgEventTypeInactive)

		case errors.Is(err, getAvailableSlots.ErrRangeTooLong):
			h.logger.Warn("GET /hosts/{id}/event-types/{id}/available-slots - Range too long: start=%s, end=%s", start, end)
			handlers.RespondBadRequest(w, msgRangeTooLong)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /hosts/{id}/event-types/{id}/available-slots - Invalid input: error=%v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /hosts/{id}/event-types/{id}/available-slots - Failed to get slots: host_id=%d, event_type_id=%d, error=%v",
				hostID, eventTypeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /hosts/{id}/event-types/{id}/available-slots - Slots retrieved: host_id=%d, event_type_id=%d, slots_count=%d",
		hostID, eventTypeID, len(response.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
