package models

// MatchStrategy names the rule that produced a program match. Strategies are
// reported alongside assignments for auditing and confidence tiering.
type MatchStrategy string

// Resolution strategies in priority order.
const (
	MatchDirectProgramID            MatchStrategy = "direct_program_id"
	MatchProgramCodeExact           MatchStrategy = "program_code_exact"
	MatchProgramCodeStripped        MatchStrategy = "program_code_stripped"
	MatchProgramRelation            MatchStrategy = "program_relation"
	MatchProgramCodePartial         MatchStrategy = "program_code_partial"
	MatchApplicantProgramID         MatchStrategy = "applicant_program_id"
	MatchStudentProgramID           MatchStrategy = "student_program_id"
	MatchDesiredProgramDirect       MatchStrategy = "desired_program_direct"
	MatchDesiredProgramStripped     MatchStrategy = "desired_program_stripped"
	MatchDesiredProgramKeywords     MatchStrategy = "desired_program_keywords"
	MatchDesiredProgramSubstring    MatchStrategy = "desired_program_substring"
	MatchDesiredProgramWords        MatchStrategy = "desired_program_words"
	MatchStudentProgramCode         MatchStrategy = "student_program_code"
	MatchStudentProgramCodeStripped MatchStrategy = "student_program_code_stripped"
	MatchUnresolved                 MatchStrategy = "unresolved"
)

// Confidence tiers a resolution for downstream policy. Only Medium and above
// may drive irreversible writes.
type Confidence string

// Confidence tiers.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// AtLeast reports whether c meets the given threshold.
func (c Confidence) AtLeast(threshold Confidence) bool {
	rank := map[Confidence]int{ConfidenceNone: 0, ConfidenceLow: 1, ConfidenceMedium: 2, ConfidenceHigh: 3}
	return rank[c] >= rank[threshold]
}

// ResolutionResult is the ephemeral outcome of resolving one enrollment to a
// program. It is never persisted; it drives reconciliation and reporting.
type ResolutionResult struct {
	ProgramID  int64         `json:"program_id,omitempty"`
	Strategy   MatchStrategy `json:"strategy"`
	Confidence Confidence    `json:"confidence"`
	Resolved   bool          `json:"resolved"`
}

// Unresolved is the sentinel result for enrollments no strategy matched.
func Unresolved() ResolutionResult {
	return ResolutionResult{Strategy: MatchUnresolved, Confidence: ConfidenceNone}
}
