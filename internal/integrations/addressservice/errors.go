package addressservice

import "errors"

var (
	// ErrAddressNotFound возвращается, когда адрес не существует или принадлежит другому пользователю
	ErrAddressNotFound = errors.New("address not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("addressservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("addressservice client: invalid response")

	// ErrNotConfigured сервис профилей не настроен, адрес проверить нельзя
	ErrNotConfigured = errors.New("addressservice: not configured")
)
