package models

import "time"

// AssignmentStatusEnrolled is the only status this engine writes.
const AssignmentStatusEnrolled = "enrolled"

// CourseAssignment is the engine's output fact: one course assigned to one
// enrollment. Rows are unique per (enrollment_id, course_id) and append-only.
type CourseAssignment struct {
	ID            string    `db:"id" json:"id"`
	EnrollmentID  int64     `db:"enrollment_id" json:"enrollment_id"`
	CourseID      int64     `db:"course_id" json:"course_id"`
	StudentNumber string    `db:"student_number" json:"student_number"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// AssignedPair identifies an (enrollment, course) combination. The pipeline
// builds a set of these from existing rows as its idempotency guard.
type AssignedPair struct {
	EnrollmentID int64 `db:"enrollment_id"`
	CourseID     int64 `db:"course_id"`
}
