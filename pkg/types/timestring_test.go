package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "hh:mm", input: "09:30", want: "09:30"},
		{name: "hh:mm:ss from TIME column", input: "23:15:00", want: "23:15"},
		{name: "not padded", input: "9:30", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "garbage", input: "ab:cd", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("10:30").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:30"), got)

	got, err = TimeString("10:30").AddMinutes(-60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), got)

	_, err = TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrOutOfDay)

	_, err = TimeString("00:30").AddMinutes(-60)
	assert.ErrorIs(t, err, ErrOutOfDay)
}

func TestTimeString_DiffMinutes(t *testing.T) {
	diff, err := TimeString("10:30").DiffMinutes("10:00")
	require.NoError(t, err)
	assert.Equal(t, 30, diff)

	diff, err = TimeString("09:00").DiffMinutes("10:00")
	require.NoError(t, err)
	assert.Equal(t, -60, diff)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:59").IsBefore("10:00"))
	assert.True(t, TimeString("12:00").IsAfter("11:59"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("08:00"))
	assert.Equal(t, TimeString("08:00"), ts)

	require.NoError(t, ts.Scan([]byte("17:45:00")))
	assert.Equal(t, TimeString("17:45"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 6, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("06:05"), ts)

	assert.Error(t, ts.Scan(42))
}

func TestFromMinutes(t *testing.T) {
	got, err := FromMinutes(0)
	require.NoError(t, err)
	assert.Equal(t, TimeString("00:00"), got)

	got, err = FromMinutes(23*60 + 59)
	require.NoError(t, err)
	assert.Equal(t, TimeString("23:59"), got)

	_, err = FromMinutes(24 * 60)
	assert.ErrorIs(t, err, ErrOutOfDay)
}
