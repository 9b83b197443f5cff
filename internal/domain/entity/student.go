package entity

import "time"

// Student is the training profile attached to a user.
type Student struct {
	ID                 int64      `json:"id"`
	UserID             int64      `json:"user_id"`
	University         string     `json:"university"`
	DepartmentName     string     `json:"department_name"`
	RegistrationNumber string     `json:"registration_number"`
	YearOfStudy        int        `json:"year_of_study"`
	PTLocation         string     `json:"pt_location"`
	PTStartDate        *time.Time `json:"practical_training_start_date,omitempty"`
	LogbookPrintCount  int        `json:"logbook_print_count"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
