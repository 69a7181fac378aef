package booking

import (
	"errors"

	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

// isSlotConflict true для нарушения bookings_active_slot_uidx.
// Сбой сериализации (40001) конфликтом слота не считается: его перезапускает txmanager.
func isSlotConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqUniqueViolation
}
