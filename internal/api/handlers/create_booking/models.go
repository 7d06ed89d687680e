package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
)

// InviteeRequest контакты приглашенного
type InviteeRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	HostID      int64          `json:"hostId,omitempty"`
	EventTypeID int64          `json:"eventTypeId"`
	StartAt     time.Time      `json:"startAt"` // RFC3339 со смещением
	EndAt       time.Time      `json:"endAt"`
	Invitee     InviteeRequest `json:"invitee"`
	Notes       *string        `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{
		HostID:      r.HostID,
		EventTypeID: r.EventTypeID,
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
		Invitee: domain.Invitee{
			Name:  r.Invitee.Name,
			Email: r.Invitee.Email,
			Phone: r.Invitee.Phone,
		},
		Notes: r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *models.BookingResponse {
	return models.FromDomainBooking(resp.Booking)
}
