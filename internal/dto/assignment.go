package dto

// RunAssignmentsRequest is the invocation surface of the batch assignment
// pipeline. Nil pointers mean "all" (or "active year" for the academic
// year); StudentType defaults to "all".
type RunAssignmentsRequest struct {
	AcademicYearID *int64 `json:"academic_year_id" validate:"omitempty,gt=0"`
	YearLevel      *int   `json:"year_level" validate:"omitempty,min=1,max=4"`
	Semester       *int   `json:"semester" validate:"omitempty,min=1,max=2"`
	StudentType    string `json:"student_type" validate:"omitempty,oneof=all new old"`
	ProgramID      *int64 `json:"program_id" validate:"omitempty,gt=0"`
}

// ResolutionPreview wraps a dry-run resolution outcome for one enrollment.
type ResolutionPreview struct {
	EnrollmentID int64  `json:"enrollment_id"`
	Strict       bool   `json:"strict"`
	ProgramID    int64  `json:"program_id,omitempty"`
	ProgramCode  string `json:"program_code,omitempty"`
	ProgramName  string `json:"program_name,omitempty"`
	Strategy     string `json:"strategy"`
	Confidence   string `json:"confidence"`
	Resolved     bool   `json:"resolved"`
}
