package domain

import "time"

// FormatDate renders t as M/D/YYYY in UTC, the format used in reports and emails.
func FormatDate(t time.Time) string {
	return t.UTC().Format("1/2/2006")
}
