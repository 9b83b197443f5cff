package entity

// Logbook limits and placeholder texts
const (
	EntriesPerWeek         = 5
	WeekSpanDays           = 4
	DefaultWeekActivity    = "Waiting for entries"
	BatchEntryPlaceholder  = "** click update to edit **"
	MissingDatePlaceholder = "yyyy-mm-dd"
)

// Date layouts
const (
	DateLayout = "2006-01-02"
)
