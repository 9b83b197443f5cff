package logbook

// Weekdays is the fixed training week in document order. Validation and the
// days table both iterate it, so the two can never disagree.
var Weekdays = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// IsWeekday reports whether name is one of Weekdays.
func IsWeekday(name string) bool {
	for _, d := range Weekdays {
		if d == name {
			return true
		}
	}
	return false
}
