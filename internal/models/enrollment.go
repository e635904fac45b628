package models

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusEnrolled  EnrollmentStatus = "ENROLLED"
	EnrollmentStatusPending   EnrollmentStatus = "PENDING"
	EnrollmentStatusWithdrawn EnrollmentStatus = "WITHDRAWN"
)

// Enrollment captures a student's registration for an academic period.
// ProgramID and ProgramCode should agree but upstream data frequently
// violates that; the engine restores the invariant opportunistically and
// never rejects a record over it.
type Enrollment struct {
	ID             int64            `db:"id" json:"id"`
	StudentID      *int64           `db:"student_id" json:"student_id,omitempty"`
	ApplicantID    *int64           `db:"applicant_id" json:"applicant_id,omitempty"`
	ProgramID      *int64           `db:"program_id" json:"program_id,omitempty"`
	ProgramCode    *string          `db:"program_code" json:"program_code,omitempty"`
	YearLevel      int              `db:"year_level" json:"year_level"`
	Semester       int              `db:"semester" json:"semester"`
	AcademicYearID int64            `db:"academic_year_id" json:"academic_year_id"`
	Status         EnrollmentStatus `db:"status" json:"status"`
}

// EligibleEnrollment is an enrollment eager-loaded with the applicant,
// student and program columns the resolver and reconciler need, so the
// pipeline never re-fetches per row.
type EligibleEnrollment struct {
	Enrollment
	JoinedProgramCode      *string `db:"joined_program_code" json:"joined_program_code,omitempty"`
	JoinedProgramName      *string `db:"joined_program_name" json:"joined_program_name,omitempty"`
	ApplicantProgramID     *int64  `db:"applicant_program_id" json:"applicant_program_id,omitempty"`
	ApplicantDesired       *string `db:"applicant_desired_program" json:"applicant_desired_program,omitempty"`
	ApplicantStudentNumber *string `db:"applicant_student_number" json:"applicant_student_number,omitempty"`
	ApplicantStudentID     *int64  `db:"applicant_student_id" json:"applicant_student_id,omitempty"`
	StudentProgramID       *int64  `db:"student_program_id" json:"student_program_id,omitempty"`
	StudentProgramCode     *string `db:"student_program_code" json:"student_program_code,omitempty"`
	StudentNumber          *string `db:"student_number" json:"student_number,omitempty"`
	LinkedStudentNumber    *string `db:"linked_student_number" json:"linked_student_number,omitempty"`
}

// EligibilityFilter narrows which enrollments a pipeline run considers.
// Zero values mean "all" for the optional fields.
type EligibilityFilter struct {
	AcademicYearID int64
	YearLevel      int
	Semester       int
	StudentType    StudentType
	ProgramID      int64
}

// StudentType partitions enrollments by prior assignment history.
type StudentType string

// Student type filters. "New" means the student has no course assignment
// above first year; "Old" means they do.
const (
	StudentTypeAll StudentType = "all"
	StudentTypeNew StudentType = "new"
	StudentTypeOld StudentType = "old"
)
