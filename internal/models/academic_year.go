package models

import "time"

// AcademicYear represents a school year period owned by academic
// administration. At most one year is expected to be active at a time.
type AcademicYear struct {
	ID       int64     `db:"id" json:"id"`
	Name     string    `db:"name" json:"name"`
	Active   bool      `db:"active" json:"active"`
	StartsOn time.Time `db:"starts_on" json:"starts_on"`
}
