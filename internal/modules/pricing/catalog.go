package pricing

import (
	"errors"
	"fmt"
	"strings"
)

type SqftRange struct {
	Min   int     `yaml:"min" json:"min"`
	Max   int     `yaml:"max" json:"max"`
	Price float64 `yaml:"price" json:"price"`
}

type Extra struct {
	ID    string  `yaml:"id" json:"id"`
	Name  string  `yaml:"name" json:"name"`
	Price float64 `yaml:"price" json:"price"`
}

// Document is the serializable form of a catalog (YAML on disk, JSON over HTTP).
type Document struct {
	Catalog            string             `yaml:"catalog" json:"catalog"`
	Version            int                `yaml:"version" json:"version"`
	PricePerBedroom    float64            `yaml:"price_per_bedroom" json:"price_per_bedroom"`
	PricePerBathroom   float64            `yaml:"price_per_bathroom" json:"price_per_bathroom"`
	SqftRanges         []SqftRange        `yaml:"sqft_ranges" json:"sqft_ranges"`
	SqftFallback       float64            `yaml:"sqft_fallback" json:"sqft_fallback"`
	Extras             []Extra            `yaml:"extras" json:"extras"`
	FrequencyDiscounts map[string]float64 `yaml:"frequency_discounts" json:"frequency_discounts"`
}

// Catalog is an immutable, validated price list. It has no mutators and is
// safe for concurrent use.
type Catalog struct {
	doc        Document
	extrasByID map[string]Extra
}

// DefaultDocument is the built-in price list, used when the embedded YAML
// cannot be read.
func DefaultDocument() Document {
	return Document{
		Catalog:          "residential_cleaning",
		Version:          1,
		PricePerBedroom:  35,
		PricePerBathroom: 25,
		SqftRanges: []SqftRange{
			{Min: 0, Max: 500, Price: 60},
			{Min: 501, Max: 1000, Price: 90},
			{Min: 1001, Max: 1500, Price: 120},
			{Min: 1501, Max: 2000, Price: 150},
			{Min: 2001, Max: 2500, Price: 180},
			{Min: 2501, Max: 99999, Price: 210},
		},
		SqftFallback: 210,
		Extras: []Extra{
			{ID: "deep-clean", Name: "Deep Clean", Price: 50},
			{ID: "inside-fridge", Name: "Inside Fridge", Price: 30},
			{ID: "inside-oven", Name: "Inside Oven", Price: 30},
			{ID: "inside-cabinets", Name: "Inside Cabinets", Price: 40},
			{ID: "laundry", Name: "Laundry (Wash & Fold)", Price: 25},
			{ID: "windows", Name: "Interior Windows", Price: 35},
		},
		FrequencyDiscounts: map[string]float64{
			"one-time": 0,
			"weekly":   0.20,
			"biweekly": 0.10,
			"monthly":  0.05,
		},
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := NewCatalog(DefaultDocument())
	if err != nil {
		panic(fmt.Sprintf("pricing: built-in catalog invalid: %v", err))
	}
	return c
}

// NewCatalog validates doc and freezes a private copy of it.
func NewCatalog(doc Document) (*Catalog, error) {
	if doc.SqftFallback == 0 && len(doc.SqftRanges) > 0 {
		doc.SqftFallback = doc.SqftRanges[len(doc.SqftRanges)-1].Price
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	cp := doc.clone()
	byID := make(map[string]Extra, len(cp.Extras))
	for _, e := range cp.Extras {
		byID[e.ID] = e
	}
	return &Catalog{doc: cp, extrasByID: byID}, nil
}

func (d Document) Validate() error {
	var errs []error
	if d.PricePerBedroom < 0 {
		errs = append(errs, errors.New("price_per_bedroom must be >= 0"))
	}
	if d.PricePerBathroom < 0 {
		errs = append(errs, errors.New("price_per_bathroom must be >= 0"))
	}
	if d.SqftFallback < 0 {
		errs = append(errs, errors.New("sqft_fallback must be >= 0"))
	}
	if len(d.SqftRanges) == 0 {
		errs = append(errs, errors.New("at least one sqft range is required"))
	}
	for i, r := range d.SqftRanges {
		if r.Min > r.Max {
			errs = append(errs, fmt.Errorf("sqft range %d: min %d > max %d", i, r.Min, r.Max))
		}
		if r.Price < 0 {
			errs = append(errs, fmt.Errorf("sqft range %d: price must be >= 0", i))
		}
		if i == 0 && r.Min != 0 {
			errs = append(errs, fmt.Errorf("sqft ranges must start at 0, got %d", r.Min))
		}
		if i > 0 && r.Min != d.SqftRanges[i-1].Max+1 {
			errs = append(errs, fmt.Errorf("sqft range %d: not contiguous with previous (min=%d prev_max=%d)", i, r.Min, d.SqftRanges[i-1].Max))
		}
	}
	seen := map[string]bool{}
	for i, e := range d.Extras {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			errs = append(errs, fmt.Errorf("extra %d: id is required", i))
			continue
		}
		if seen[id] {
			errs = append(errs, fmt.Errorf("duplicate extra id: %s", id))
		}
		seen[id] = true
		if e.Price < 0 {
			errs = append(errs, fmt.Errorf("extra %s: price must be >= 0", id))
		}
	}
	for freq, rate := range d.FrequencyDiscounts {
		if rate < 0 || rate >= 1 {
			errs = append(errs, fmt.Errorf("discount for %q must be in [0,1), got %v", freq, rate))
		}
	}
	return errors.Join(errs...)
}

func (d Document) clone() Document {
	out := d
	out.SqftRanges = append([]SqftRange(nil), d.SqftRanges...)
	out.Extras = append([]Extra(nil), d.Extras...)
	out.FrequencyDiscounts = make(map[string]float64, len(d.FrequencyDiscounts))
	for k, v := range d.FrequencyDiscounts {
		out.FrequencyDiscounts[k] = v
	}
	return out
}

// Document returns a copy of the catalog contents.
func (c *Catalog) Document() Document { return c.doc.clone() }

func (c *Catalog) PricePerBedroom() float64  { return c.doc.PricePerBedroom }
func (c *Catalog) PricePerBathroom() float64 { return c.doc.PricePerBathroom }

// SqftPrice returns the price of the first tier containing sqft, or the fallback.
func (c *Catalog) SqftPrice(sqft int) float64 {
	for _, r := range c.doc.SqftRanges {
		if sqft >= r.Min && sqft <= r.Max {
			return r.Price
		}
	}
	return c.doc.SqftFallback
}

func (c *Catalog) Extra(id string) (Extra, bool) {
	e, ok := c.extrasByID[id]
	return e, ok
}

// ResolveExtras maps ids to catalog lines in request order. Unknown ids are
// dropped; repeated ids are kept so the lines sum to the extras cost.
func (c *Catalog) ResolveExtras(ids []string) []Extra {
	out := make([]Extra, 0, len(ids))
	for _, id := range ids {
		if e, ok := c.extrasByID[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Discount returns the discount fraction for a frequency token, 0 when unknown.
func (c *Catalog) Discount(frequency string) float64 {
	return c.doc.FrequencyDiscounts[frequency]
}
