package get_host_bookings

import (
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(hostID int64, eventTypeIDStr, startStr, endStr, statusStr string) (*models.GetHostBookingsRequest, error) {
	req := &models.GetHostBookingsRequest{
		HostID: hostID,
	}

	// Парсим eventTypeId если указан
	if eventTypeIDStr != "" {
		eventTypeID, err := strconv.ParseInt(eventTypeIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.EventTypeID = &eventTypeID
	}

	// Даты и статус проверяет сервис
	if startStr != "" {
		req.StartDate = &startStr
	}
	if endStr != "" {
		req.EndDate = &endStr
	}
	if statusStr != "" {
		req.Status = &statusStr
	}

	return req, nil
}
