package notifier

// TypeSendNotification тип задачи asynq, которую обрабатывает сервис уведомлений
const TypeSendNotification = "notification:send"

// Payload полезная нагрузка задачи уведомления
type Payload struct {
	UserID    int64  `json:"user_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	BookingID int64  `json:"booking_id"`
}
