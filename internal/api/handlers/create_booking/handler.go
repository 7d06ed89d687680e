package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingEventTypeID  = "ID типа события обязателен"
	msgMissingSlot         = "startAt и endAt обязательны"
	msgEventTypeNotFound   = "тип события не найден"
	msgEventTypeInactive   = "тип события отключен"
	msgInvalidSlot         = "длительность слота не совпадает с длительностью встречи"
	msgPastSlot            = "слот уже начался"
	msgSlotNotAvailable    = "слот больше недоступен, обновите список слотов"
	msgInvalidInviteeInput = "некорректные контакты или заметки"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.EventTypeID <= 0 {
		h.logger.Warn("POST /bookings - Missing event type ID")
		handlers.RespondBadRequest(w, msgMissingEventTypeID)
		return
	}
	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		h.logger.Warn("POST /bookings - Missing slot bounds: event_type_id=%d", req.EventTypeID)
		handlers.RespondBadRequest(w, msgMissingSlot)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: event_type_id=%d, start=%s",
				req.EventTypeID, req.StartAt)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrPastSlot):
			h.logger.Warn("POST /bookings - Slot in the past: event_type_id=%d, start=%s",
				req.EventTypeID, req.StartAt)
			handlers.RespondUnprocessable(w, msgPastSlot)

		case errors.Is(err, createBooking.ErrEventTypeNotFound):
			h.logger.Warn("POST /bookings - Event type not found: event_type_id=%d", req.EventTypeID)
			handlers.RespondNotFound(w, msgEventTypeNotFound)

		case errors.Is(err, createBooking.ErrEventTypeInactive):
			h.logger.Warn("POST /bookings - Event type inactive: event_type_id=%d", req.EventTypeID)
			handlers.RespondNotFound(w, msgEventTypeInactive)

		case errors.Is(err, createBooking.ErrInvalidSlot):
			h.logger.Warn("POST /bookings - Invalid slot: event_type_id=%d, error=%v", req.EventTypeID, err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: event_type_id=%d, error=%v", req.EventTypeID, err)
			handlers.RespondBadRequest(w, msgInvalidInviteeInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: event_type_id=%d, error=%v",
				req.EventTypeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created: booking_id=%s, host_id=%d, event_type_id=%d",
		response.ID, response.HostID, response.EventTypeID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
