package domain

import (
	"errors"
	"fmt"
)

// Kind категория ошибки бизнес-логики. Транспортный слой переводит её в код ответа.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindForbidden  Kind = "forbidden"
	KindBadRequest Kind = "bad_request"
)

// Error ошибка бизнес-логики с категорией и человекочитаемой причиной
type Error struct {
	Kind   Kind
	Reason string
}

// NewError создает ошибку заданной категории
func NewError(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

func (e *Error) Error() string {
	return e.Reason
}

// Is позволяет сравнивать с сентинелами категорий: errors.Is(err, domain.ErrConflict).
// Конкретные ошибки (ErrSlotTaken и т.п.) сравниваются по указателю.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Reason == "" {
		return t.Kind == e.Kind
	}
	return t == e
}

// Сентинелы категорий
var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrForbidden  = &Error{Kind: KindForbidden}
	ErrBadRequest = &Error{Kind: KindBadRequest}
)

// Ошибки, общие для нескольких пакетов
var (
	ErrBookingNotFound   = NewError(KindNotFound, "booking not found")
	ErrProviderNotFound  = NewError(KindNotFound, "provider not found")
	ErrServiceNotFound   = NewError(KindNotFound, "service not found")
	ErrAccessDenied      = NewError(KindForbidden, "actor is not allowed to perform this action")
	ErrInvalidTransition = NewError(KindBadRequest, "booking status does not allow this action")
	ErrInvalidRating     = NewError(KindBadRequest, fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	ErrInvalidWindow     = NewError(KindBadRequest, "availability window start must be before end")
	ErrInvalidDayOfWeek  = NewError(KindBadRequest, "day of week must be between 0 (Sunday) and 6")
)

// KindOf возвращает категорию ошибки, если это *Error
func KindOf(err error) (Kind, bool) {
	for _, k := range []*Error{ErrNotFound, ErrConflict, ErrForbidden, ErrBadRequest} {
		if errors.Is(err, k) {
			return k.Kind, true
		}
	}
	return "", false
}
