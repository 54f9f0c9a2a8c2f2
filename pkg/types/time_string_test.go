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
		{name: "hh:mm", input: "09:20", want: "09:20"},
		{name: "with seconds", input: "09:20:00", want: "09:20"},
		{name: "single digit hour", input: "9:05", want: "09:05"},
		{name: "end of day", input: "24:00", want: "24:00"},
		{name: "minutes overflow", input: "09:60", wantErr: true},
		{name: "past end of day", input: "24:01", wantErr: true},
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
	got, err := MustTimeString("09:40").AddMinutes(20)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:00"), got)

	got, err = MustTimeString("23:40").AddMinutes(20)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), got)

	_, err = MustTimeString("23:50").AddMinutes(20)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Compare(t *testing.T) {
	a := MustTimeString("09:00")
	b := MustTimeString("09:20")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.True(t, a.Equal(MustTimeString("09:00:00")))

	diff, err := a.MinutesUntil(b)
	require.NoError(t, err)
	assert.Equal(t, 20, diff)
}

func TestTimeString_ScanAndValue(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 9, 40, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("09:40"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("24:00"), ts)

	require.NoError(t, ts.Scan([]byte("10:00:00")))
	assert.Equal(t, TimeString("10:00"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))

	value, err := MustTimeString("09:20").Value()
	require.NoError(t, err)
	assert.Equal(t, "09:20:00", value)
}
