package catalog

import (
	"strings"

	"github.com/go-faster/errors"
)

// ErrNoMatch is returned when no catalog item satisfies the locator criteria.
var ErrNoMatch = errors.New("no furniture matches the given criteria")

// Criteria describes a furniture item by what it is rather than by its id.
type Criteria struct {
	// Name is required. It is matched against the furniture kind first; when
	// it is not a kind it is treated as a case-insensitive name substring.
	Name string
	// Attrs are attribute constraints that must all hold exactly
	// (case-insensitive values), e.g. {"material": "leather"}.
	Attrs map[string]string
	// DescriptionKeyword, when set, must appear as a case-insensitive
	// substring of the item's description.
	DescriptionKeyword string
}

// Locator resolves furniture items from descriptive criteria, for callers
// that do not know ids.
type Locator struct {
	catalog *Catalog
}

// NewLocator creates a Locator over the given catalog.
func NewLocator(c *Catalog) *Locator {
	return &Locator{catalog: c}
}

// Locate returns the single item matching the criteria. Candidates are
// narrowed by kind/name, then by each attribute constraint, then by the
// description keyword. When several candidates survive, the one with the
// lexicographically smallest id wins, so repeated calls with the same catalog
// state resolve to the same item; callers needing uniqueness must add
// constraints.
func (l *Locator) Locate(crit Criteria) (Item, error) {
	if strings.TrimSpace(crit.Name) == "" {
		return Item{}, errors.New("locator criteria require a name")
	}

	var candidates []Item
	if kind, ok := ParseKind(crit.Name); ok {
		candidates = l.catalog.FindByName(string(kind), true)
	} else {
		candidates = l.catalog.FindByName(crit.Name, false)
	}

	for key, want := range crit.Attrs {
		if !KnownAttribute(key) {
			return Item{}, errors.Wrapf(ErrUnknownAttribute, "%q", key)
		}
		candidates = filter(candidates, func(it Item) bool {
			v, ok := it.AttributeValue(key)
			return ok && strings.EqualFold(v, want)
		})
	}

	if kw := strings.ToLower(crit.DescriptionKeyword); kw != "" {
		candidates = filter(candidates, func(it Item) bool {
			return strings.Contains(strings.ToLower(it.Description), kw)
		})
	}

	if len(candidates) == 0 {
		return Item{}, ErrNoMatch
	}
	// FindByName returns items ordered by id and filter preserves order, so
	// the first candidate is the deterministic tie-break winner.
	return candidates[0], nil
}

func filter(items []Item, keep func(Item) bool) []Item {
	out := items[:0:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
