package list_reviews

import "errors"

// ErrInternal возвращается при внутренних ошибках usecase
var ErrInternal = errors.New("list_reviews: internal error")
