package reschedule_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID uuid.UUID // ID переносимого бронирования
	StartAt   time.Time // Начало нового слота
	EndAt     time.Time // Конец нового слота
}

// Response модель ответа: новое бронирование и ID замененного
type Response struct {
	Booking      *domain.Booking
	PreviousID   uuid.UUID
	PreviousSlot domain.Slot
}
