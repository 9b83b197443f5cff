package logbook

// HeaderInfo carries the identification fields printed at the top of a
// weekly logbook.
type HeaderInfo struct {
	Department  string
	StudentName string
	RegNo       string
	Company     string
	WeekNo      int
	FromDate    string
	ToDate      string
}

// DayEntry is the work recorded for a single weekday.
type DayEntry struct {
	Date     string
	Activity string
}

// Operation is one row of the main-job table.
type Operation struct {
	Operation string
	Machinery string
}

// Input bundles everything a single build needs.
type Input struct {
	Header      HeaderInfo
	Days        map[string]DayEntry
	Operations  []Operation
	DiagramPath string
}
