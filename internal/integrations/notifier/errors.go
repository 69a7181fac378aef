package notifier

import "errors"

var (
	// ErrEnqueue возвращается, когда задачу уведомления не удалось поставить в очередь
	ErrEnqueue = errors.New("notifier: failed to enqueue notification")

	// ErrEncode возвращается при ошибке сериализации полезной нагрузки
	ErrEncode = errors.New("notifier: failed to encode payload")
)
