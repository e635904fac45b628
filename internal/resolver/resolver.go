// Package resolver determines which canonical program an enrollment record
// belongs to. Resolution is a pure function over the enrollment view and the
// program catalog: an ordered, first-match-wins chain of matchers, each
// tagged with a strategy and a confidence tier. Strict mode disables the
// fuzzy matchers and is used whenever a caller needs a single unambiguous
// program.
package resolver

import (
	"strings"

	"github.com/kolehiyo/admissions-api/internal/catalog"
	"github.com/kolehiyo/admissions-api/internal/models"
)

// Input is the subset of an enrollment's eager-loaded view the resolver
// examines. All fields are optional; absent sources simply skip their step.
type Input struct {
	ProgramID          *int64
	ProgramCode        *string
	JoinedProgramCode  *string
	JoinedProgramName  *string
	ApplicantProgramID *int64
	ApplicantDesired   *string
	StudentProgramID   *int64
	StudentProgramCode *string
}

// FromEligible projects an eligible enrollment row onto resolver input.
func FromEligible(e models.EligibleEnrollment) Input {
	return Input{
		ProgramID:          e.ProgramID,
		ProgramCode:        e.ProgramCode,
		JoinedProgramCode:  e.JoinedProgramCode,
		JoinedProgramName:  e.JoinedProgramName,
		ApplicantProgramID: e.ApplicantProgramID,
		ApplicantDesired:   e.ApplicantDesired,
		StudentProgramID:   e.StudentProgramID,
		StudentProgramCode: e.StudentProgramCode,
	}
}

type matcher struct {
	strategy   models.MatchStrategy
	confidence models.Confidence
	strictSafe bool
	match      func(in Input, cat *catalog.Catalog) (int64, bool)
}

// chain is evaluated top to bottom, short-circuiting on the first hit.
// Order is the contract: a direct id always beats a conflicting code, a code
// always beats linked-record ids, and free-text matching comes last.
var chain = []matcher{
	{models.MatchDirectProgramID, models.ConfidenceHigh, true, matchDirectID},
	{models.MatchProgramCodeExact, models.ConfidenceHigh, true, matchCodeExact},
	{models.MatchProgramCodeStripped, models.ConfidenceHigh, true, matchCodeStripped},
	{models.MatchProgramRelation, models.ConfidenceHigh, true, matchRelation},
	{models.MatchProgramCodePartial, models.ConfidenceLow, false, matchCodePartial},
	{models.MatchApplicantProgramID, models.ConfidenceMedium, true, matchApplicantID},
	{models.MatchStudentProgramID, models.ConfidenceMedium, true, matchStudentID},
	{models.MatchDesiredProgramDirect, models.ConfidenceLow, false, matchDesiredDirect},
	{models.MatchDesiredProgramStripped, models.ConfidenceLow, false, matchDesiredStripped},
	{models.MatchDesiredProgramKeywords, models.ConfidenceLow, false, matchDesiredKeywords},
	{models.MatchDesiredProgramSubstring, models.ConfidenceLow, false, matchDesiredSubstring},
	{models.MatchDesiredProgramWords, models.ConfidenceLow, false, matchDesiredWords},
	{models.MatchStudentProgramCode, models.ConfidenceMedium, false, matchStudentCode},
	{models.MatchStudentProgramCodeStripped, models.ConfidenceMedium, false, matchStudentCodeStripped},
}

// Resolve runs the matcher chain over the input. It never fails: unmatched
// input yields the unresolved sentinel. In strict mode only the strict-safe
// steps run.
func Resolve(in Input, cat *catalog.Catalog, strict bool) models.ResolutionResult {
	for _, m := range chain {
		if strict && !m.strictSafe {
			continue
		}
		if id, ok := m.match(in, cat); ok {
			return models.ResolutionResult{
				ProgramID:  id,
				Strategy:   m.strategy,
				Confidence: m.confidence,
				Resolved:   true,
			}
		}
	}
	return models.Unresolved()
}

func matchDirectID(in Input, cat *catalog.Catalog) (int64, bool) {
	if in.ProgramID == nil {
		return 0, false
	}
	if p, ok := cat.ByID(*in.ProgramID); ok {
		return p.ID, true
	}
	return 0, false
}

func matchCodeExact(in Input, cat *catalog.Catalog) (int64, bool) {
	if in.ProgramCode == nil {
		return 0, false
	}
	if p, ok := cat.LookupExact(*in.ProgramCode); ok {
		return p.ID, true
	}
	return 0, false
}

func matchCodeStripped(in Input, cat *catalog.Catalog) (int64, bool) {
	if in.ProgramCode == nil {
		return 0, false
	}
	if p, ok := cat.LookupStripped(*in.ProgramCode); ok {
		return p.ID, true
	}
	return 0, false
}

// matchRelation consults the program row already materialized on the
// enrollment. Its id may be stale, so the joined code and name are matched
// back against the catalog instead of trusted directly.
func matchRelation(in Input, cat *catalog.Catalog) (int64, bool) {
	if in.JoinedProgramCode != nil {
		if p, ok := cat.LookupExact(*in.JoinedProgramCode); ok {
			return p.ID, true
		}
	}
	if in.JoinedProgramName != nil {
		if p, ok := cat.LookupStripped(*in.JoinedProgramName); ok {
			return p.ID, true
		}
	}
	return 0, false
}

func matchCodePartial(in Input, cat *catalog.Catalog) (int64, bool) {
	if in.ProgramCode == nil {
		return 0, false
	}
	if p, ok := cat.Partial(*in.ProgramCode); ok {
		return p.ID, true
	}
	return 0, false
}

func matchApplicantID(in Input, cat *catalog.Catalog) (int64, bool) {
	if in.ApplicantProgramID == nil {
		return 0, false
	}
	if p, ok := cat.ByID(*in.ApplicantProgramID); ok {
		return p.ID, true
	}
	return 0, false
}

func matchStudentID(in Input, cat *catalog.Catalog) (int64, bool) {
	if in.StudentProgramID == nil {
		return 0, false
	}
	if p, ok := cat.ByID(*in.StudentProgramID); ok {
		return p.ID, true
	}
	return 0, false
}

func matchDesiredDirect(in Input, cat *catalog.Catalog) (int64, bool) {
	if in.ApplicantDesired == nil {
		return 0, false
	}
	if p, ok := cat.LookupExact(*in.ApplicantDesired); ok {
		return p.ID, true
	}
	return 0, false
}

func matchDesiredStripped(in Input, cat *catalog.Catalog) (int64, bool) {
	if in.ApplicantDesired == nil {
		return 0, false
	}
	if p, ok := cat.LookupStripped(*in.ApplicantDesired); ok {
		return p.ID, true
	}
	return 0, false
}

func matchDesiredKeywords(in Input, cat *catalog.Catalog) (int64, bool) {
	if in.ApplicantDesired == nil {
		return 0, false
	}
	return keywordMatch(*in.ApplicantDesired, cat)
}

func matchDesiredSubstring(in Input, cat *catalog.Catalog) (int64, bool) {
	if in.ApplicantDesired == nil {
		return 0, false
	}
	if p, ok := cat.Partial(*in.ApplicantDesired); ok {
		return p.ID, true
	}
	return 0, false
}

func matchDesiredWords(in Input, cat *catalog.Catalog) (int64, bool) {
	if in.ApplicantDesired == nil {
		return 0, false
	}
	return significantWordMatch(*in.ApplicantDesired, cat)
}

func matchStudentCode(in Input, cat *catalog.Catalog) (int64, bool) {
	if in.StudentProgramCode == nil {
		return 0, false
	}
	if p, ok := cat.LookupExact(*in.StudentProgramCode); ok {
		return p.ID, true
	}
	return 0, false
}

func matchStudentCodeStripped(in Input, cat *catalog.Catalog) (int64, bool) {
	if in.StudentProgramCode == nil {
		return 0, false
	}
	if p, ok := cat.LookupStripped(*in.StudentProgramCode); ok {
		return p.ID, true
	}
	return 0, false
}

// programKeywords is the fixed vocabulary for weighted keyword overlap.
var programKeywords = []string{
	"associate", "computer", "technology", "application", "development",
	"information", "systems", "science", "business", "management",
	"education", "hospitality", "criminology", "engineering",
}

// keywordMatch scores each program by how many fixed keywords co-occur in
// both the input text and the program name. A match requires at least two
// shared keywords; the "application"+"development" pair earns a bonus since
// it pins down the app-dev track specifically. Ties keep catalogue order.
func keywordMatch(text string, cat *catalog.Catalog) (int64, bool) {
	inputWords := wordSet(text)
	var inputKeys []string
	for _, kw := range programKeywords {
		if _, ok := inputWords[kw]; ok {
			inputKeys = append(inputKeys, kw)
		}
	}
	if len(inputKeys) < 2 {
		return 0, false
	}

	bestScore := 0
	var bestID int64
	for _, p := range cat.Programs() {
		nameWords := wordSet(p.Name)
		score := 0
		hasApp, hasDev := false, false
		for _, kw := range inputKeys {
			if _, ok := nameWords[kw]; !ok {
				continue
			}
			score++
			switch kw {
			case "application":
				hasApp = true
			case "development":
				hasDev = true
			}
		}
		if score < 2 {
			continue
		}
		if hasApp && hasDev {
			score += 2
		}
		if score > bestScore {
			bestScore = score
			bestID = p.ID
		}
	}
	return bestID, bestScore > 0
}

// significantWordMatch is the last-resort heuristic: shared tokens longer
// than three characters between the input and a program name.
func significantWordMatch(text string, cat *catalog.Catalog) (int64, bool) {
	inputWords := wordSet(text)

	bestScore := 0
	var bestID int64
	for _, p := range cat.Programs() {
		nameWords := wordSet(p.Name)
		score := 0
		for w := range inputWords {
			if len(w) <= 3 {
				continue
			}
			if _, ok := nameWords[w]; ok {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestID = p.ID
		}
	}
	return bestID, bestScore > 0
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[strings.Trim(w, ".,-–()")] = struct{}{}
	}
	return set
}
