package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolehiyo/admissions-api/internal/models"
)

func testPrograms() []models.Program {
	return []models.Program{
		{ID: 1, Code: "BSIS", Name: "Bachelor of Science in Information Systems"},
		{ID: 2, Code: "BSIT", Name: "Bachelor of Science in Information Technology"},
		{ID: 3, Code: "ACT", Name: "Associate in Computer Technology"},
		{ID: 4, Code: "HRS NC II", Name: "Housekeeping Services NC II"},
	}
}

func TestCatalogByID(t *testing.T) {
	cat := New(testPrograms())

	p, ok := cat.ByID(3)
	require.True(t, ok)
	assert.Equal(t, "ACT", p.Code)

	_, ok = cat.ByID(99)
	assert.False(t, ok)
}

func TestCatalogLookupExact(t *testing.T) {
	cat := New(testPrograms())

	p, ok := cat.LookupExact("bsis")
	require.True(t, ok)
	assert.Equal(t, int64(1), p.ID)

	// Trimming and case folding happen before lookup.
	p, ok = cat.LookupExact("  BSIT ")
	require.True(t, ok)
	assert.Equal(t, int64(2), p.ID)

	_, ok = cat.LookupExact("BSCE")
	assert.False(t, ok)
}

func TestCatalogLookupStripped(t *testing.T) {
	cat := New(testPrograms())

	// Codes with inner whitespace are indexed without it.
	p, ok := cat.LookupStripped("HRSNCII")
	require.True(t, ok)
	assert.Equal(t, int64(4), p.ID)

	// Full names collapse to their stripped form too.
	p, ok = cat.LookupStripped("Bachelor of Science in Information Systems")
	require.True(t, ok)
	assert.Equal(t, int64(1), p.ID)
}

func TestCatalogAcronymIndexing(t *testing.T) {
	cat := New([]models.Program{
		{ID: 7, Code: "X-100", Name: "Bachelor of Science in Criminology"},
	})

	// "of" and "in" are skipped when deriving the acronym.
	p, ok := cat.LookupExact("bsc")
	require.True(t, ok)
	assert.Equal(t, int64(7), p.ID)
}

func TestCatalogSynonymVariants(t *testing.T) {
	cat := New(testPrograms())

	// "Bachelor of Science" indexes a "BS"-substituted variant of the name.
	p, ok := cat.LookupStripped("BS in Information Systems")
	require.True(t, ok)
	assert.Equal(t, int64(1), p.ID)

	// NC II spelling variants all land on the same program.
	p, ok = cat.LookupStripped("Housekeeping Services NCII")
	require.True(t, ok)
	assert.Equal(t, int64(4), p.ID)
}

func TestCatalogPartial(t *testing.T) {
	cat := New(testPrograms())

	p, ok := cat.Partial("housekeeping services")
	require.True(t, ok)
	assert.Equal(t, int64(4), p.ID)

	// Needles shorter than three characters never match.
	_, ok = cat.Partial("bs")
	assert.False(t, ok)

	_, ok = cat.Partial("nursing")
	assert.False(t, ok)
}

func TestCatalogFirstWinsOnCollision(t *testing.T) {
	cat := New([]models.Program{
		{ID: 1, Code: "BSIS", Name: "Bachelor of Science in Information Systems"},
		{ID: 2, Code: "bsis", Name: "Duplicate Listing"},
	})

	p, ok := cat.LookupExact("BSIS")
	require.True(t, ok)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, 2, cat.Len())
}

func TestNormalizeStripAcronym(t *testing.T) {
	assert.Equal(t, "bs info systems", Normalize("  BS   Info  Systems "))
	assert.Equal(t, "hrsncii", Strip("HRS NC-II"))
	assert.Equal(t, "bsis", Acronym("Bachelor of Science in Information Systems"))
	assert.Equal(t, "", Acronym("Nursing"))
}
