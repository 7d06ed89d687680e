package get_available_slots

import (
	"time"

	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	HostID          int64           `json:"hostId"`
	EventTypeID     int64           `json:"eventTypeId"`
	StartDate       string          `json:"startDate"`
	EndDate         string          `json:"endDate"`
	Timezone        string          `json:"timezone"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота (RFC3339 со смещением часового пояса ответа)
type AvailableSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Start: slot.Start,
			End:   slot.End,
		}
	}

	return &AvailableSlotsResponse{
		HostID:          resp.HostID,
		EventTypeID:     resp.EventTypeID,
		StartDate:       resp.StartDate.String(),
		EndDate:         resp.EndDate.String(),
		Timezone:        resp.Timezone,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(hostID, eventTypeID int64, start, end, timezone string) *getAvailableSlots.Request {
	return &getAvailableSlots.Request{
		HostID:      hostID,
		EventTypeID: eventTypeID,
		StartDate:   start,
		EndDate:     end,
		Timezone:    timezone,
	}
}
