package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2026-08-24 is a Monday.
var monday = time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

func TestAddBusinessDays(t *testing.T) {
	assert.Equal(t, monday, AddBusinessDays(monday, 0))

	// Monday + 4 business days lands on Friday.
	assert.Equal(t, monday.AddDate(0, 0, 4), AddBusinessDays(monday, 4))

	// Monday + 5 business days skips the weekend and lands on next Monday.
	assert.Equal(t, monday.AddDate(0, 0, 7), AddBusinessDays(monday, 5))

	// Friday + 1 business day is Monday.
	friday := monday.AddDate(0, 0, 4)
	assert.Equal(t, friday.AddDate(0, 0, 3), AddBusinessDays(friday, 1))

	// Starting on Saturday, the first business day added is Monday.
	saturday := monday.AddDate(0, 0, 5)
	assert.Equal(t, saturday.AddDate(0, 0, 2), AddBusinessDays(saturday, 1))
}

func TestBusinessDaysBetween(t *testing.T) {
	assert.Equal(t, 0, BusinessDaysBetween(monday, monday))
	assert.Equal(t, 0, BusinessDaysBetween(monday, monday.AddDate(0, 0, -1)))

	// Monday through Friday: four weekdays strictly after Monday.
	assert.Equal(t, 4, BusinessDaysBetween(monday, monday.AddDate(0, 0, 4)))

	// Monday through next Monday: the weekend does not count.
	assert.Equal(t, 5, BusinessDaysBetween(monday, monday.AddDate(0, 0, 7)))

	// Friday to Sunday spans no business days.
	friday := monday.AddDate(0, 0, 4)
	assert.Equal(t, 0, BusinessDaysBetween(friday, friday.AddDate(0, 0, 2)))
}

func TestDelay(t *testing.T) {
	t.Run("within expected window", func(t *testing.T) {
		delay, overdue := Delay(monday, 3, monday.AddDate(0, 0, 2))
		assert.False(t, overdue)
		assert.Equal(t, 0, delay)
	})

	t.Run("exactly at eta", func(t *testing.T) {
		eta := AddBusinessDays(monday, 3)
		delay, overdue := Delay(monday, 3, eta)
		assert.False(t, overdue)
		assert.Equal(t, 0, delay)
	})

	t.Run("past eta", func(t *testing.T) {
		// ETA Thursday; checking the following Monday is two business days late.
		delay, overdue := Delay(monday, 3, monday.AddDate(0, 0, 7))
		assert.True(t, overdue)
		assert.Equal(t, 2, delay)
	})

	t.Run("weekend overrun does not count", func(t *testing.T) {
		// ETA Friday; checking Sunday is past the instant but adds no
		// business days.
		delay, overdue := Delay(monday, 4, monday.AddDate(0, 0, 6))
		assert.True(t, overdue)
		assert.Equal(t, 0, delay)
	})
}
