package reschedule_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	rescheduleBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

// RescheduleBookingResponse новое бронирование и ссылка на замененное
type RescheduleBookingResponse struct {
	Booking      *models.BookingResponse `json:"booking"`
	PreviousID   string                  `json:"previousId"`
	PreviousSlot SlotResponse            `json:"previousSlot"`
}

// SlotResponse границы слота в UTC
type SlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID uuid.UUID) *rescheduleBooking.Request {
	return &rescheduleBooking.Request{
		BookingID: bookingID,
		StartAt:   r.StartAt,
		EndAt:     r.EndAt,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleBookingResponse {
	return &RescheduleBookingResponse{
		Booking:    models.FromDomainBooking(resp.Booking),
		PreviousID: resp.PreviousID.String(),
		PreviousSlot: SlotResponse{
			Start: resp.PreviousSlot.Start.UTC(),
			End:   resp.PreviousSlot.End.UTC(),
		},
	}
}
