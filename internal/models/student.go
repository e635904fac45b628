package models

// Student is a registrar record. ProgramID and ProgramCode are patched by
// the reconciler when they diverge from the resolved canonical program.
type Student struct {
	ID            int64   `db:"id" json:"id"`
	StudentNumber string  `db:"student_number" json:"student_number"`
	ProgramID     *int64  `db:"program_id" json:"program_id,omitempty"`
	ProgramCode   *string `db:"program_code" json:"program_code,omitempty"`
	YearLevel     int     `db:"year_level" json:"year_level"`
	Semester      int     `db:"semester" json:"semester"`
	Active        bool    `db:"active" json:"active"`
}
