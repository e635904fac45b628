package models

// Course is a teachable subject offered at a given year level and semester.
// ProgramID is set when the course belongs to a single program; shared
// courses leave it null and are associated by code instead.
type Course struct {
	ID        int64  `db:"id" json:"id"`
	Code      string `db:"code" json:"code"`
	Title     string `db:"title" json:"title"`
	Units     int    `db:"units" json:"units"`
	YearLevel int    `db:"year_level" json:"year_level"`
	Semester  int    `db:"semester" json:"semester"`
	ProgramID *int64 `db:"program_id" json:"program_id,omitempty"`
}
