package theme

import (
	"fmt"
	"time"

	"EndoDigest/internal/domain"
)

// Table maps every weekday to its theme. Construction fails unless all seven
// weekdays are covered, so a gap is caught at startup rather than mid-cycle.
type Table struct {
	themes map[time.Weekday]domain.Theme
	loc    *time.Location
}

// NewTable validates weekday coverage and binds the account time zone.
// An unresolvable zone falls back to system time.
func NewTable(themes map[time.Weekday]domain.Theme, timezone string) (*Table, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if _, ok := themes[d]; !ok {
			return nil, fmt.Errorf("theme table: no theme for %s", d)
		}
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.Local
	}

	return &Table{themes: themes, loc: loc}, nil
}

// ForDate returns the theme for the weekday of at in the table's zone.
func (t *Table) ForDate(at time.Time) domain.Theme {
	return t.themes[t.Weekday(at)]
}

// Weekday resolves at to a weekday in the table's zone.
func (t *Table) Weekday(at time.Time) time.Weekday {
	return at.In(t.loc).Weekday()
}

// Location exposes the bound zone for day-boundary arithmetic.
func (t *Table) Location() *time.Location {
	return t.loc
}

// Default is the account's weekly rotation.
func Default() map[time.Weekday]domain.Theme {
	return map[time.Weekday]domain.Theme{
		time.Monday: {
			Label:    "Endocrine syndromes",
			Queries:  []string{"endocrine syndrome"},
			Hashtags: []string{"#Endocrinology", "#Syndrome", "#MondaySyndrome"},
		},
		time.Tuesday: {
			Label:    "Obesity",
			Queries:  []string{"obesity"},
			Hashtags: []string{"#Endocrinology", "#Obesity"},
		},
		time.Wednesday: {
			Label:    "Thyroid disorders",
			Queries:  []string{"thyroid"},
			Hashtags: []string{"#Endocrinology", "#Thyroid"},
		},
		time.Thursday: {
			Label:    "Diabetes",
			Queries:  []string{"diabetes"},
			Hashtags: []string{"#Endocrinology", "#Diabetes"},
		},
		time.Friday: {
			Label:    "Bone health / Osteoporosis / Parathyroid",
			Queries:  []string{"osteoporosis"},
			Hashtags: []string{"#Endocrinology", "#Osteoporosis", "#BoneHealth"},
		},
		time.Saturday: {
			Label:    "AI in Endocrinology",
			Queries:  []string{"artificial intelligence", "machine learning"},
			Hashtags: []string{"#Endocrinology", "#AI"},
		},
		time.Sunday: {
			Label:    "Endocrine case reports",
			Queries:  []string{"case report", "endocrine"},
			Hashtags: []string{"#Endocrinology", "#CaseReport"},
		},
	}
}
