package repository

import "time"

func nowUTC() time.Time {
	return time.Now().UTC()
}

// dateOnly normalizes t to midnight UTC so equal calendar days compare equal
// in SQL.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
