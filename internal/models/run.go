package models

import "time"

// RunStatus tracks the lifecycle of an assignment run.
type RunStatus string

// Run statuses.
const (
	RunStatusQueued    RunStatus = "QUEUED"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// RunError is a per-record or per-program issue surfaced in the report.
// These never abort the run; only transaction-level failures do.
type RunError struct {
	EnrollmentID int64  `json:"enrollment_id,omitempty"`
	ProgramID    int64  `json:"program_id,omitempty"`
	Code         string `json:"code"`
	Message      string `json:"message"`
}

// RunReport is the structured outcome of one assignment run.
type RunReport struct {
	RunID                  string     `json:"run_id"`
	Status                 RunStatus  `json:"status"`
	AcademicYearID         int64      `json:"academic_year_id"`
	ProgramsProcessed      int        `json:"programs_processed"`
	ProgramsSkipped        int        `json:"programs_skipped"`
	CurriculaMaterialized  int        `json:"curricula_materialized"`
	StudentsProcessed      int        `json:"students_processed"`
	CoursesAssigned        int        `json:"courses_assigned"`
	StudentsWithNewCourses int        `json:"students_with_new_courses"`
	StudentsUnresolved     int        `json:"students_unresolved"`
	Errors                 []RunError `json:"errors"`
	StartedAt              time.Time  `json:"started_at"`
	FinishedAt             *time.Time `json:"finished_at,omitempty"`
	DurationMS             int64      `json:"duration_ms"`
}
