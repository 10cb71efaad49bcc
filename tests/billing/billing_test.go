package billing_test

import (
	"testing"
	"time"

	"github.com/opsboard-hq/opsboard-api/internal/billing"
	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestNextBillingDate_LaterThisMonth(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	next := billing.NextBillingDate(15, now)

	assert.Equal(t, date(2026, time.March, 15), next)
}

func TestNextBillingDate_RollsToNextMonth(t *testing.T) {
	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)

	next := billing.NextBillingDate(15, now)

	assert.Equal(t, date(2026, time.April, 15), next)
}

func TestNextBillingDate_SameDayRollsOver(t *testing.T) {
	// The billing day itself has already started, so the next charge is a
	// month out.
	now := time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC)

	next := billing.NextBillingDate(15, now)

	assert.Equal(t, date(2026, time.April, 15), next)
}

func TestNextBillingDate_ClampsToEndOfFebruary(t *testing.T) {
	now := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)

	next := billing.NextBillingDate(31, now)

	// 2026 is not a leap year
	assert.Equal(t, date(2026, time.February, 28), next)
}

func TestNextBillingDate_ClampsToLeapDay(t *testing.T) {
	now := time.Date(2028, time.February, 10, 0, 0, 0, 0, time.UTC)

	next := billing.NextBillingDate(31, now)

	assert.Equal(t, date(2028, time.February, 29), next)
}

func TestNextBillingDate_RolloverClampsAgain(t *testing.T) {
	// Past the clamped January date, the rollover lands in February and
	// must clamp to its last day too.
	now := time.Date(2026, time.January, 31, 12, 0, 0, 0, time.UTC)

	next := billing.NextBillingDate(31, now)

	assert.Equal(t, date(2026, time.February, 28), next)
}

func TestNextBillingDate_DecemberRollsToJanuary(t *testing.T) {
	now := time.Date(2026, time.December, 20, 0, 0, 0, 0, time.UTC)

	next := billing.NextBillingDate(10, now)

	assert.Equal(t, date(2027, time.January, 10), next)
}

func TestNextBillingDate_ThirtyFirstInThirtyDayMonth(t *testing.T) {
	now := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)

	next := billing.NextBillingDate(31, now)

	assert.Equal(t, date(2026, time.April, 30), next)
}

func TestNextBillingDate_InvalidBillingDay(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, billing.NextBillingDate(0, now).IsZero())
	assert.True(t, billing.NextBillingDate(-5, now).IsZero())
	assert.True(t, billing.NextBillingDate(32, now).IsZero())
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, billing.IsOverdue(date(2026, time.March, 5), now))
	assert.False(t, billing.IsOverdue(date(2026, time.March, 15), now))
}

func TestIsOverdue_ZeroTimeNeverOverdue(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	assert.False(t, billing.IsOverdue(time.Time{}, now))
}

func TestDaysOverdue(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 5, billing.DaysOverdue(date(2026, time.March, 5), now))
	assert.Equal(t, 0, billing.DaysOverdue(date(2026, time.March, 15), now))
	assert.Equal(t, 0, billing.DaysOverdue(time.Time{}, now))
}
