package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	HostID      int64          // ID хоста (0 - взять из типа события)
	EventTypeID int64          // ID типа события
	StartAt     time.Time      // Начало слота
	EndAt       time.Time      // Конец слота
	Invitee     domain.Invitee // Контакты приглашенного
	Notes       *string        // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
}
