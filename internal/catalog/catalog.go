// Package catalog builds the per-run program index the resolver matches
// against. A Catalog is constructed once per pipeline run from the full
// program list and is immutable afterwards, so it can be shared by reference
// without locking.
package catalog

import (
	"strings"

	"github.com/kolehiyo/admissions-api/internal/models"
)

// synonymSets are domain token groups treated as interchangeable when
// indexing program names. Each member generates an extra key with the other
// members substituted in.
var synonymSets = [][]string{
	{"nc ii", "ncii", "nc2"},
	{"bachelor of science", "bs"},
	{"bachelor of arts", "ba"},
	{"information technology", "it"},
	{"information systems", "is"},
	{"associate in", "a"},
}

// acronymStopwords are skipped when deriving a first-letter acronym.
var acronymStopwords = map[string]struct{}{
	"of": {}, "in": {}, "and": {}, "the": {}, "for": {}, "a": {}, "an": {},
}

// Catalog indexes programs under every plausible lookup key: lowered code,
// space-stripped code, space-stripped name, name acronym and synonym
// variants. When two programs collide on a key the first indexed program
// wins; iteration order is the load order of the program list.
type Catalog struct {
	programs []models.Program
	byID     map[int64]int
	byKey    map[string]int
	keys     []string
}

// New builds a catalog from the full program list.
func New(programs []models.Program) *Catalog {
	c := &Catalog{
		programs: programs,
		byID:     make(map[int64]int, len(programs)),
		byKey:    make(map[string]int),
	}
	for i, p := range programs {
		if _, ok := c.byID[p.ID]; !ok {
			c.byID[p.ID] = i
		}
		c.index(Normalize(p.Code), i)
		c.index(Strip(p.Code), i)
		c.index(Strip(p.Name), i)
		c.index(Acronym(p.Name), i)
		for _, variant := range synonymVariants(Normalize(p.Name)) {
			c.index(Strip(variant), i)
		}
	}
	return c
}

func (c *Catalog) index(key string, i int) {
	if key == "" {
		return
	}
	if _, exists := c.byKey[key]; exists {
		return
	}
	c.byKey[key] = i
	c.keys = append(c.keys, key)
}

// Programs returns the catalogue in load order.
func (c *Catalog) Programs() []models.Program {
	return c.programs
}

// Len reports the number of indexed programs.
func (c *Catalog) Len() int {
	return len(c.programs)
}

// ByID looks a program up by its canonical id.
func (c *Catalog) ByID(id int64) (models.Program, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Program{}, false
	}
	return c.programs[i], true
}

// LookupExact matches the lowered, trimmed input verbatim against the index.
func (c *Catalog) LookupExact(text string) (models.Program, bool) {
	i, ok := c.byKey[Normalize(text)]
	if !ok {
		return models.Program{}, false
	}
	return c.programs[i], true
}

// LookupStripped matches the input with all whitespace removed.
func (c *Catalog) LookupStripped(text string) (models.Program, bool) {
	i, ok := c.byKey[Strip(text)]
	if !ok {
		return models.Program{}, false
	}
	return c.programs[i], true
}

// Partial scans indexed keys in insertion order and returns the first
// program whose key contains the stripped input or is contained by it.
// Inputs shorter than three characters never match.
func (c *Catalog) Partial(text string) (models.Program, bool) {
	needle := Strip(text)
	if len(needle) < 3 {
		return models.Program{}, false
	}
	for _, key := range c.keys {
		if strings.Contains(key, needle) || strings.Contains(needle, key) {
			return c.programs[c.byKey[key]], true
		}
	}
	return models.Program{}, false
}

// Normalize lowercases, trims and collapses inner whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Strip lowercases and removes whitespace and common punctuation.
func Strip(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '\n', '-', '–', '.', ',':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Acronym derives the first-letter acronym of a name, skipping connectives,
// so "Bachelor of Science in Information Systems" yields "bsis".
func Acronym(name string) string {
	words := strings.Fields(strings.ToLower(name))
	if len(words) < 2 {
		return ""
	}
	var b strings.Builder
	for _, w := range words {
		if _, skip := acronymStopwords[w]; skip {
			continue
		}
		b.WriteByte(w[0])
	}
	if b.Len() < 2 {
		return ""
	}
	return b.String()
}

// synonymVariants substitutes synonym group members on word boundaries, so
// the single-letter member "a" never matches inside another word.
func synonymVariants(normName string) []string {
	padded := " " + normName + " "
	var variants []string
	for _, set := range synonymSets {
		for _, member := range set {
			if !strings.Contains(padded, " "+member+" ") {
				continue
			}
			for _, alt := range set {
				if alt == member {
					continue
				}
				v := strings.Replace(padded, " "+member+" ", " "+alt+" ", 1)
				variants = append(variants, strings.TrimSpace(v))
			}
		}
	}
	return variants
}
