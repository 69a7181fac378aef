package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// QueueNotifier ставит уведомления в очередь asynq (Redis)
type QueueNotifier struct {
	client   Enqueuer
	queue    string
	maxRetry int
	log      Logger
}

// NewQueueNotifier создает notifier поверх клиента asynq
func NewQueueNotifier(client Enqueuer, queue string, maxRetry int, log Logger) *QueueNotifier {
	return &QueueNotifier{
		client:   client,
		queue:    queue,
		maxRetry: maxRetry,
		log:      log,
	}
}

// NewTask собирает задачу уведомления
func NewTask(payload Payload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return asynq.NewTask(TypeSendNotification, b), nil
}

// Notify ставит уведомление пользователю в очередь
func (n *QueueNotifier) Notify(ctx context.Context, userID int64, title, message string, bookingID int64) error {
	task, err := NewTask(Payload{UserID: userID, Title: title, Message: message, BookingID: bookingID})
	if err != nil {
		return err
	}

	info, err := n.client.EnqueueContext(ctx, task,
		asynq.Queue(n.queue),
		asynq.MaxRetry(n.maxRetry),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("%w: user_id=%d, booking_id=%d: %v", ErrEnqueue, userID, bookingID, err)
	}

	n.log.Info("Notification queued: task=%s, user_id=%d, booking_id=%d", info.ID, userID, bookingID)
	return nil
}

// LogNotifier пишет уведомления в лог. Используется, когда очередь не настроена.
type LogNotifier struct {
	log Logger
}

// NewLogNotifier создает notifier, пишущий в лог
func NewLogNotifier(log Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, userID int64, title, message string, bookingID int64) error {
	n.log.Info("Notification: user_id=%d, booking_id=%d, title=%q, message=%q", userID, bookingID, title, message)
	return nil
}
