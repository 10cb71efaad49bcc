// Package billing computes subscription billing dates. All functions are
// pure; dates are derived on every read and never persisted.
package billing

import "time"

// NextBillingDate returns the next date a subscription with the given
// billing day should be charged, relative to now. The candidate is the
// billing day in now's month, clamped to the month's last day when the
// month is shorter (billingDay=31 in February yields Feb 28/29). A
// candidate that is not strictly after now rolls over to the next month,
// clamped again.
//
// billingDay outside 1..31 is invalid and yields the zero time.
func NextBillingDate(billingDay int, now time.Time) time.Time {
	if billingDay < 1 || billingDay > 31 {
		return time.Time{}
	}

	candidate := dateForMonth(now.Year(), now.Month(), billingDay, now.Location())
	if candidate.After(now) {
		return candidate
	}
	next := now.AddDate(0, 0, -now.Day()+1).AddDate(0, 1, 0)
	return dateForMonth(next.Year(), next.Month(), billingDay, now.Location())
}

// IsOverdue reports whether the next billing date has passed. The zero
// time (an uncomputable date) is never overdue.
func IsOverdue(next, now time.Time) bool {
	if next.IsZero() {
		return false
	}
	return next.Before(now)
}

// DaysOverdue returns the number of whole days between due and now,
// or 0 when due is not in the past.
func DaysOverdue(due, now time.Time) int {
	if due.IsZero() || !due.Before(now) {
		return 0
	}
	return int(now.Sub(due).Hours() / 24)
}

// dateForMonth builds the billing date in the given month, clamping the
// day to the month's last day.
func dateForMonth(year int, month time.Month, day int, loc *time.Location) time.Time {
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func lastDayOfMonth(year int, month time.Month) int {
	// day 0 of the next month normalizes to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
