package model

import "time"

// Completeness describes how much of a jurisdiction's rules are on file
type Completeness string

const (
	CompletenessComplete Completeness = "complete"
	CompletenessPartial  Completeness = "partial"
	CompletenessMissing  Completeness = "missing"
)

// Valid reports whether c is a known completeness status
func (c Completeness) Valid() bool {
	switch c {
	case CompletenessComplete, CompletenessPartial, CompletenessMissing:
		return true
	}
	return false
}

// Category is the employment category used to pick a liability branch
type Category string

const (
	CategoryGeneral      Category = "general"
	CategoryDomestic     Category = "domestic" // household employment
	CategoryAgricultural Category = "agricultural"
	CategoryNonprofit    Category = "nonprofit"
	CategoryGovernment   Category = "government"
)

// Categories lists every employment category in display order
var Categories = []Category{
	CategoryGeneral,
	CategoryDomestic,
	CategoryAgricultural,
	CategoryNonprofit,
	CategoryGovernment,
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Period is a wage reporting period
type Period string

const (
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// Valid reports whether p is a known reporting period
func (p Period) Valid() bool {
	return p == PeriodQuarter || p == PeriodYear
}

// WageThreshold is the payroll amount that triggers liability within a period
type WageThreshold struct {
	Amount float64 `json:"amount" bson:"amount" yaml:"amount"`
	Period Period  `json:"period" bson:"period" yaml:"period"`
}

// WeeksThreshold is the number of distinct weeks with paid work that triggers liability
type WeeksThreshold struct {
	Count int `json:"count" bson:"count" yaml:"count"`
}

// LiabilityBranch holds the thresholds for one employment category
type LiabilityBranch struct {
	Wage  *WageThreshold  `json:"wageThreshold,omitempty" bson:"wageThreshold,omitempty" yaml:"wage,omitempty"`
	Weeks *WeeksThreshold `json:"weeksThreshold,omitempty" bson:"weeksThreshold,omitempty" yaml:"weeks,omitempty"`
}

// HasThresholds reports whether the branch declares any threshold at all
func (b *LiabilityBranch) HasThresholds() bool {
	return b != nil && (b.Wage != nil || b.Weeks != nil)
}

// Ruleset is a jurisdiction's registration rules, keyed by category.
// A missing category falls back to the general branch.
type Ruleset struct {
	Jurisdiction string                       `json:"jurisdiction" bson:"_id" yaml:"jurisdiction"`
	Name         string                       `json:"name,omitempty" bson:"name,omitempty" yaml:"name,omitempty"`
	Completeness Completeness                 `json:"completeness" bson:"completeness" yaml:"completeness"`
	Branches     map[Category]LiabilityBranch `json:"branches" bson:"branches" yaml:"branches"`
	Notes        []string                     `json:"notes,omitempty" bson:"notes,omitempty" yaml:"notes,omitempty"`
	UpdatedAt    time.Time                    `json:"updatedAt" bson:"updatedAt" yaml:"-"`
}

// Branch returns the branch declared for category, if any
func (r *Ruleset) Branch(category Category) (*LiabilityBranch, bool) {
	if r == nil || r.Branches == nil {
		return nil, false
	}
	b, ok := r.Branches[category]
	if !ok {
		return nil, false
	}
	return &b, true
}
