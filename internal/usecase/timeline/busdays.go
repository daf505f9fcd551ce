package timeline

import "time"

// Business-day arithmetic shared by the ETA projection and the overdue sweep.
// A business day is any weekday; holidays are not modelled.

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// AddBusinessDays returns the instant days business days after from,
// skipping Saturdays and Sundays.
func AddBusinessDays(from time.Time, days int) time.Time {
	t := from
	for added := 0; added < days; {
		t = t.AddDate(0, 0, 1)
		if !isWeekend(t) {
			added++
		}
	}
	return t
}

// BusinessDaysBetween counts the business days strictly after from, up to and
// including to. Returns 0 when to is not after from.
func BusinessDaysBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	count := 0
	for t := from.AddDate(0, 0, 1); !t.After(to); t = t.AddDate(0, 0, 1) {
		if !isWeekend(t) {
			count++
		}
	}
	return count
}

// Delay reports how many business days a step has run past its expected
// duration, given when the transaction was received at the step.
func Delay(receivedAt time.Time, expectedDays int, now time.Time) (delayDays int, overdue bool) {
	eta := AddBusinessDays(receivedAt, expectedDays)
	if !now.After(eta) {
		return 0, false
	}
	return BusinessDaysBetween(eta, now), true
}
