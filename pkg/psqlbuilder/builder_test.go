package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_DollarPlaceholders(t *testing.T) {
	query, args, err := Select("id").
		From("bookings").
		Where(squirrel.Eq{"provider_id": 7, "booking_date": "2025-10-15"}).
		ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM bookings WHERE booking_date = $1 AND provider_id = $2", query)
	assert.Equal(t, []interface{}{"2025-10-15", 7}, args)
}

func TestUpdate_DollarPlaceholders(t *testing.T) {
	query, args, err := Update("providers").
		Set("total_bookings", squirrel.Expr("total_bookings + 1")).
		Where(squirrel.Eq{"id": 3}).
		ToSql()
	require.NoError(t, err)

	assert.Equal(t, "UPDATE providers SET total_bookings = total_bookings + 1 WHERE id = $1", query)
	assert.Equal(t, []interface{}{3}, args)
}
