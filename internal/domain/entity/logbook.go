package entity

import "time"

// Logbook is one training week of a student.
type Logbook struct {
	ID              int64     `json:"id"`
	StudentID       int64     `json:"student_id"`
	WeekNumber      int       `json:"week_number"`
	FromDate        time.Time `json:"from_date"`
	ToDate          time.Time `json:"to_date"`
	IsSubmitted     bool      `json:"is_submitted"`
	WeekActivity    string    `json:"week_activity"`
	ActivityDiagram string    `json:"activity_diagram,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Contains reports whether date falls on a day between FromDate and ToDate
// inclusive.
func (l *Logbook) Contains(date time.Time) bool {
	d := TruncateDay(date)
	return !d.Before(TruncateDay(l.FromDate)) && !d.After(TruncateDay(l.ToDate))
}

// Entry is the activity recorded for one day of a logbook.
type Entry struct {
	ID        int64     `json:"id"`
	LogbookID int64     `json:"logbook_id"`
	Day       string    `json:"day"`
	Date      time.Time `json:"date"`
	Activity  string    `json:"activity"`
	IsUpdated bool      `json:"is_updated"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Operation is a main job of the week and the tools used for it.
type Operation struct {
	ID        int64     `json:"id"`
	LogbookID int64     `json:"logbook_id"`
	Operation string    `json:"operation"`
	Machinery string    `json:"machinery"`
	IsUpdated bool      `json:"is_updated"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GeneratedDocument records the last file produced for a logbook.
type GeneratedDocument struct {
	ID        int64     `json:"id"`
	LogbookID int64     `json:"logbook_id"`
	FilePath  string    `json:"file_path"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"created_at"`
}

// TruncateDay drops the time of day, keeping the date in t's location.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
