package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_TruncatesToUTCDay(t *testing.T) {
	// 23:30 in UTC+2 is 21:30 UTC the same day.
	loc := time.FixedZone("UTC+2", 2*3600)
	d := DateOf(time.Date(2025, 3, 14, 23, 30, 0, 0, loc))
	assert.Equal(t, "2025-03-14", d.String())

	// 01:30 in UTC+2 is 23:30 UTC the previous day.
	d = DateOf(time.Date(2025, 3, 15, 1, 30, 0, 0, loc))
	assert.Equal(t, "2025-03-14", d.String())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, time.March, 14), d)

	_, err = ParseDate("14.03.2025")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestAddDays_RollsOverBoundaries(t *testing.T) {
	assert.Equal(t, "2025-03-01", NewDate(2025, time.February, 28).AddDays(1).String())
	assert.Equal(t, "2024-02-29", NewDate(2024, time.February, 28).AddDays(1).String())
	assert.Equal(t, "2025-01-01", NewDate(2024, time.December, 31).AddDays(1).String())
	assert.Equal(t, "2025-03-13", NewDate(2025, time.March, 14).AddDays(-1).String())
}

func TestDaysBetween(t *testing.T) {
	a := NewDate(2025, time.March, 14)

	assert.Equal(t, 0, DaysBetween(a, a))
	assert.Equal(t, 1, DaysBetween(a, a.AddDays(1)))
	assert.Equal(t, -3, DaysBetween(a, a.AddDays(-3)))
	assert.Equal(t, 365, DaysBetween(a, NewDate(2026, time.March, 14)))
}

func TestIsNextDay(t *testing.T) {
	a := NewDate(2025, time.March, 14)

	assert.True(t, IsNextDay(a, a.AddDays(1)))
	assert.False(t, IsNextDay(a, a))
	assert.False(t, IsNextDay(a, a.AddDays(2)))
	assert.False(t, IsNextDay(a.AddDays(1), a))
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2025, time.March, 14)
	b := NewDate(2025, time.March, 15)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))
}

func TestDate_IsZero(t *testing.T) {
	var d Date
	assert.True(t, d.IsZero())
	assert.False(t, Today().IsZero())
}
