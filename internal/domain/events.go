package domain

import "time"

// Ключи маршрутизации событий жизненного цикла бронирования
const (
	EventBookingCreated     = "booking.created"
	EventBookingConfirmed   = "booking.confirmed"
	EventBookingStarted     = "booking.started"
	EventBookingCompleted   = "booking.completed"
	EventBookingCancelled   = "booking.cancelled"
	EventBookingRescheduled = "booking.rescheduled"
	EventBookingReviewed    = "booking.reviewed"
)

// BookingEvent полезная нагрузка события для уведомлений и платежей
type BookingEvent struct {
	EventID     string        `json:"event_id"`
	Key         string        `json:"key"`
	BookingID   int64         `json:"booking_id"`
	RequesterID int64         `json:"requester_id"`
	ProviderID  int64         `json:"provider_id"`
	ActorID     int64         `json:"actor_id"`
	Status      BookingStatus `json:"status"`
	Date        string        `json:"date"`
	Time        string        `json:"time"`
	Timezone    string        `json:"timezone"`
	Amount      string        `json:"amount,omitempty"`
	Reason      string        `json:"reason,omitempty"`
	OccurredAt  time.Time     `json:"occurred_at"`
}
