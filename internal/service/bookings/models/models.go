package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// GetHostBookingsRequest запрос на получение бронирований хоста
type GetHostBookingsRequest struct {
	HostID      int64   `json:"hostId"`
	EventTypeID *int64  `json:"eventTypeId,omitempty"`
	StartDate   *string `json:"startDate,omitempty"` // YYYY-MM-DD, включительно
	EndDate     *string `json:"endDate,omitempty"`   // YYYY-MM-DD, включительно
	Status      *string `json:"status,omitempty"`
}

// Response модели

// InviteeResponse контакты приглашенного
type InviteeResponse struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                string          `json:"id"`
	HostID            int64           `json:"hostId"`
	EventTypeID       int64           `json:"eventTypeId"`
	BookingDate       string          `json:"bookingDate"` // дата по часовому поясу хоста
	StartAt           time.Time       `json:"startAt"`
	EndAt             time.Time       `json:"endAt"`
	Status            string          `json:"status"`
	Invitee           InviteeResponse `json:"invitee"`
	Notes             *string         `json:"notes,omitempty"`
	RescheduledFromID *string         `json:"rescheduledFromId,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:          b.ID.String(),
		HostID:      b.HostID,
		EventTypeID: b.EventTypeID,
		BookingDate: b.BookingDate.String(),
		StartAt:     b.StartAt.UTC(),
		EndAt:       b.EndAt.UTC(),
		Status:      string(b.Status),
		Invitee: InviteeResponse{
			Name:  b.Invitee.Name,
			Email: b.Invitee.Email,
			Phone: b.Invitee.Phone,
		},
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.RescheduledFromID != nil {
		from := b.RescheduledFromID.String()
		resp.RescheduledFromID = &from
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
		Total:    len(bookings),
	}

	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}

	return resp
}
