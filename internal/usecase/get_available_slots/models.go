package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	HostID      int64  // ID хоста
	EventTypeID int64  // ID типа события
	StartDate   string // Первая дата периода, YYYY-MM-DD (по часовому поясу хоста)
	EndDate     string // Последняя дата периода включительно
	Timezone    string // Часовой пояс приглашенного (пусто - часовой пояс хоста)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	HostID          int64      // ID хоста
	EventTypeID     int64      // ID типа события
	StartDate       types.Date // Первая дата периода
	EndDate         types.Date // Последняя дата периода
	Timezone        string     // Часовой пояс, в котором отображены слоты
	DurationMinutes int        // Длительность встречи
	Slots           []Slot     // Слоты по возрастанию начала
}

// Slot модель временного слота
type Slot struct {
	Start time.Time // Начало в часовом поясе Timezone
	End   time.Time // Конец в часовом поясе Timezone
}
