package models

// ApplicantStatusOfficiallyEnrolled marks an applicant cleared by admissions.
const ApplicantStatusOfficiallyEnrolled = "OFFICIALLY_ENROLLED"

// Applicant is an admissions record. DesiredProgram is free text entered by
// a human ("Associate in Computer Technology - App Dev") and is treated as a
// low-confidence resolution source only.
type Applicant struct {
	ID             int64   `db:"id" json:"id"`
	ProgramID      *int64  `db:"program_id" json:"program_id,omitempty"`
	DesiredProgram *string `db:"desired_program" json:"desired_program,omitempty"`
	StudentNumber  *string `db:"student_number" json:"student_number,omitempty"`
	StudentID      *int64  `db:"student_id" json:"student_id,omitempty"`
	Status         string  `db:"status" json:"status"`
	CampusID       *int64  `db:"campus_id" json:"campus_id,omitempty"`
}
