package domain

// Параметры планирования
const (
	SlotStepMinutes      = 30 // шаг сетки слотов в GetAvailability
	OfflineBufferMinutes = 60 // буфер до и после очного визита
)

// Ограничения бизнес-валидации
const (
	MinRating                   = 1
	MaxRating                   = 5
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxReviewCommentLength      = 2000
	MaxTimezoneLength           = 64
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultCurrency валюта платежей по умолчанию
const DefaultCurrency = "INR"

// ActiveStatuses статусы, занимающие слот. Только они участвуют в проверке коллизий.
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// TerminalStatuses финальные статусы
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
}
