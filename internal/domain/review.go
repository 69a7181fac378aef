package domain

import "time"

// Review отзыв по завершенному бронированию, не более одного на бронирование
type Review struct {
	ID         int64
	BookingID  int64
	ReviewerID int64
	ProviderID int64
	Rating     int
	Comment    *string
	CreatedAt  time.Time
}

// ValidateRating проверяет диапазон 1..5
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}
