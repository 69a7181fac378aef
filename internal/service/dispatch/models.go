package dispatch

// Notification уведомление одному пользователю
type Notification struct {
	UserID  int64
	Title   string
	Message string
}

const (
	kindNotification = "notification"
	kindEvent        = "event"
	kindPayment      = "payment_gateway"
)
