package catalog

import (
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Kind enumerates the furniture types carried by the catalog.
type Kind string

const (
	KindChair    Kind = "chair"
	KindSofa     Kind = "sofa"
	KindTable    Kind = "table"
	KindBed      Kind = "bed"
	KindBookcase Kind = "bookcase"
)

// Kinds lists every furniture kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindChair, KindSofa, KindTable, KindBed, KindBookcase}
}

// ParseKind matches a furniture kind case-insensitively.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindChair, KindSofa, KindTable, KindBed, KindBookcase:
		return k, true
	}
	return "", false
}

// ChairMaterials lists the accepted chair materials.
var ChairMaterials = []string{"wood", "plastic", "leather", "fabric"}

// TableShapes lists the accepted table shapes.
var TableShapes = []string{"round", "square", "oval"}

// FurnitureSizes lists the accepted table and bookcase sizes.
var FurnitureSizes = []string{"small", "medium", "large"}

// SofaColors lists the accepted sofa colors.
var SofaColors = []string{"gray", "black", "beige", "white"}

// BedSizes lists the accepted bed sizes.
var BedSizes = []string{"single", "twin", "queen", "king"}

const (
	maxDescriptionLen = 1000
	minSofaSeats      = 2
	maxSofaSeats      = 5
	minShelves        = 1
	maxShelves        = 10
)

// maxPrice guards against obviously bogus catalog entries.
var maxPrice = decimal.NewFromInt(1_000_000)

// Attributes holds the kind-specific payload of an Item. Only the fields
// relevant to the item's Kind are populated; Validate enforces that.
type Attributes struct {
	// Material is set for chairs.
	Material string `json:"material,omitempty"`
	// Shape is set for tables.
	Shape string `json:"shape,omitempty"`
	// Size is set for tables and bookcases (small/medium/large) and for
	// beds (single/twin/queen/king).
	Size string `json:"size,omitempty"`
	// Seats is set for sofas.
	Seats int `json:"seats,omitempty"`
	// Color is set for sofas.
	Color string `json:"color,omitempty"`
	// Shelves is set for bookcases.
	Shelves int `json:"shelves,omitempty"`
}

// Item is a single furniture record owned by the Catalog.
type Item struct {
	ID          string          `json:"id"`
	Kind        Kind            `json:"kind"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description,omitempty"`
	Attrs       Attributes      `json:"attributes"`
}

// InvalidAttributeError reports a kind/attribute mismatch or an attribute
// value outside its enumeration.
type InvalidAttributeError struct {
	Kind      Kind
	Attribute string
	Value     string
	Valid     []string
}

func (e *InvalidAttributeError) Error() string {
	if len(e.Valid) == 0 {
		return "invalid " + string(e.Kind) + " " + e.Attribute + ": " + e.Value
	}
	return "invalid " + string(e.Kind) + " " + e.Attribute + " " + strconv.Quote(e.Value) +
		", valid values: " + strings.Join(e.Valid, ", ")
}

// Validate checks the item's common fields and its kind-specific attributes
// against the fixed enumerations.
func (it *Item) Validate() error {
	if _, ok := ParseKind(string(it.Kind)); !ok {
		return errors.Errorf("unsupported furniture kind: %q", it.Kind)
	}
	if it.Price.IsNegative() {
		return errors.New("price cannot be negative")
	}
	if it.Price.GreaterThan(maxPrice) {
		return errors.New("price exceeds maximum allowed value of 1,000,000")
	}
	if it.Quantity < 0 {
		return errors.New("quantity cannot be negative")
	}
	if len(it.Description) > maxDescriptionLen {
		return errors.Errorf("description exceeds maximum length of %d characters", maxDescriptionLen)
	}

	a := it.Attrs
	switch it.Kind {
	case KindChair:
		if !containsFold(ChairMaterials, a.Material) {
			return &InvalidAttributeError{Kind: it.Kind, Attribute: "material", Value: a.Material, Valid: ChairMaterials}
		}
	case KindTable:
		if !containsFold(TableShapes, a.Shape) {
			return &InvalidAttributeError{Kind: it.Kind, Attribute: "shape", Value: a.Shape, Valid: TableShapes}
		}
		if !containsFold(FurnitureSizes, a.Size) {
			return &InvalidAttributeError{Kind: it.Kind, Attribute: "size", Value: a.Size, Valid: FurnitureSizes}
		}
	case KindSofa:
		if a.Seats < minSofaSeats || a.Seats > maxSofaSeats {
			return errors.Errorf("sofa seats must be between %d and %d", minSofaSeats, maxSofaSeats)
		}
		if !containsFold(SofaColors, a.Color) {
			return &InvalidAttributeError{Kind: it.Kind, Attribute: "color", Value: a.Color, Valid: SofaColors}
		}
	case KindBed:
		if !containsFold(BedSizes, a.Size) {
			return &InvalidAttributeError{Kind: it.Kind, Attribute: "size", Value: a.Size, Valid: BedSizes}
		}
	case KindBookcase:
		if a.Shelves < minShelves || a.Shelves > maxShelves {
			return errors.Errorf("bookcase shelves must be between %d and %d", minShelves, maxShelves)
		}
		if !containsFold(FurnitureSizes, a.Size) {
			return &InvalidAttributeError{Kind: it.Kind, Attribute: "size", Value: a.Size, Valid: FurnitureSizes}
		}
	}
	return nil
}

// Normalize lowercases the free-form enum fields so lookups and persistence
// stay case-insensitive.
func (it *Item) Normalize() {
	it.Kind = Kind(strings.ToLower(string(it.Kind)))
	it.Attrs.Material = strings.ToLower(it.Attrs.Material)
	it.Attrs.Shape = strings.ToLower(it.Attrs.Shape)
	it.Attrs.Size = strings.ToLower(it.Attrs.Size)
	it.Attrs.Color = strings.ToLower(it.Attrs.Color)
	if it.Name == "" {
		it.Name = string(it.Kind)
	}
}

// attributeKeys maps searchable attribute names to the kinds they apply to.
var attributeKeys = map[string][]Kind{
	"material": {KindChair},
	"shape":    {KindTable},
	"size":     {KindTable, KindBed, KindBookcase},
	"seats":    {KindSofa},
	"color":    {KindSofa},
	"shelves":  {KindBookcase},
}

// KnownAttribute reports whether key names an attribute of at least one
// furniture kind.
func KnownAttribute(key string) bool {
	_, ok := attributeKeys[strings.ToLower(key)]
	return ok
}

// AttributeValue returns the item's value for the given attribute key as a
// string, or false when the attribute does not apply to the item's kind.
func (it *Item) AttributeValue(key string) (string, bool) {
	kinds, ok := attributeKeys[strings.ToLower(key)]
	if !ok || !containsKind(kinds, it.Kind) {
		return "", false
	}
	switch strings.ToLower(key) {
	case "material":
		return it.Attrs.Material, true
	case "shape":
		return it.Attrs.Shape, true
	case "size":
		return it.Attrs.Size, true
	case "seats":
		return strconv.Itoa(it.Attrs.Seats), true
	case "color":
		return it.Attrs.Color, true
	case "shelves":
		return strconv.Itoa(it.Attrs.Shelves), true
	}
	return "", false
}

func containsFold(values []string, v string) bool {
	for _, s := range values {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func containsKind(kinds []Kind, k Kind) bool {
	for _, kk := range kinds {
		if kk == k {
			return true
		}
	}
	return false
}
