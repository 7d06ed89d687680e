package reschedule_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	rescheduleBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingSlot        = "startAt и endAt обязательны"
	msgBookingNotFound    = "бронирование не найдено"
	msgNotConfirmed       = "переносить можно только подтвержденное бронирование"
	msgEventTypeNotFound  = "тип события не найден"
	msgEventTypeInactive  = "тип события отключен"
	msgInvalidSlot        = "длительность слота не совпадает с длительностью встречи"
	msgPastSlot           = "слот уже начался"
	msgSlotNotAvailable   = "слот больше недоступен, обновите список слотов"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Missing slot bounds: booking_id=%s", bookingID)
		handlers.RespondBadRequest(w, msgMissingSlot)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID))
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, rescheduleBooking.ErrBookingNotConfirmed):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not confirmed: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgNotConfirmed)

		case errors.Is(err, rescheduleBooking.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Slot not available: booking_id=%s, start=%s",
				bookingID, req.StartAt)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, rescheduleBooking.ErrPastSlot):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Slot in the past: booking_id=%s, start=%s",
				bookingID, req.StartAt)
			handlers.RespondUnprocessable(w, msgPastSlot)

		case errors.Is(err, rescheduleBooking.ErrEventTypeNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Event type not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgEventTypeNotFound)

		case errors.Is(err, rescheduleBooking.ErrEventTypeInactive):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Event type inactive: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgEventTypeInactive)

		case errors.Is(err, rescheduleBooking.ErrInvalidSlot), errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid slot: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed to reschedule: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("PATCH /bookings/{id}/reschedule - Booking rescheduled: previous_id=%s, booking_id=%s",
		response.PreviousID, response.Booking.ID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
