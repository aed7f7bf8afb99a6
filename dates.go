package main

import "time"

const dateLayout = "2006-01-02"

// defaultStartDaysAgo is how far back a date-filtered tool looks when the
// caller omits start_date.
const defaultStartDaysAgo = 30

// resolveDateRange fills in missing start/end dates around the given clock
// reading. Supplied values pass through untouched; validation is the API's
// concern, not ours.
//
// The default end date is tomorrow rather than today: the caller's "today"
// may be ahead of the server's UTC clock, and an exclusive boundary at
// UTC-today would silently drop same-day records.
func resolveDateRange(now time.Time, startDate, endDate string, daysAgo int) (string, string) {
	now = now.UTC()
	if startDate == "" {
		startDate = now.AddDate(0, 0, -daysAgo).Format(dateLayout)
	}
	if endDate == "" {
		endDate = now.AddDate(0, 0, 1).Format(dateLayout)
	}
	return startDate, endDate
}
