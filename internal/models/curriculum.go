package models

import "time"

// Curriculum is the required-course set for one (program, year level,
// semester, academic year) tuple. The store does not enforce uniqueness on
// the tuple; readers resolve duplicates to the most recently created row.
type Curriculum struct {
	ID             int64     `db:"id" json:"id"`
	ProgramID      int64     `db:"program_id" json:"program_id"`
	YearLevel      int       `db:"year_level" json:"year_level"`
	Semester       int       `db:"semester" json:"semester"`
	AcademicYearID int64     `db:"academic_year_id" json:"academic_year_id"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// CourseRequirement links a course into a curriculum with ordering and a
// required/elective flag. Insertion order is preserved as SortOrder.
type CourseRequirement struct {
	ID           int64 `db:"id" json:"id"`
	CurriculumID int64 `db:"curriculum_id" json:"curriculum_id"`
	CourseID     int64 `db:"course_id" json:"course_id"`
	SortOrder    int   `db:"sort_order" json:"sort_order"`
	Required     bool  `db:"required" json:"required"`
}
