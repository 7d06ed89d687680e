package domain

// Константы бизнес-валидации
const (
	MinDurationMinutes          = 5
	MaxDurationMinutes          = 720 // 12 часов
	MaxBufferMinutes            = 240
	MaxBookingsPerDayLimit      = 500
	MaxTitleLength              = 200
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxInviteeNameLength        = 200
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов, занимающих слот
var ActiveStatuses = []BookingStatus{
	StatusConfirmed,
}
