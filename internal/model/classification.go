// Package model defines the core data types of a keyword classification result.
package model

// ClassificationResult is the output of one analysis run: four disjoint row
// collections. A result is replaced wholesale on re-analysis and never
// mutated in place.
type ClassificationResult struct {
	Positive Bucket `json:"positive"`
	Negative Bucket `json:"negative"`
}

// Bucket splits one polarity into free-text and ASIN terms.
type Bucket struct {
	NoB0   []Row `json:"no_b0"`
	OnlyB0 []Row `json:"only_b0"`
}

// Rows returns the collection for a category.
func (r *ClassificationResult) Rows(c Category) []Row {
	if r == nil {
		return nil
	}
	switch c {
	case CategoryPositiveNoB0:
		return r.Positive.NoB0
	case CategoryPositiveOnlyB0:
		return r.Positive.OnlyB0
	case CategoryNegativeNoB0:
		return r.Negative.NoB0
	case CategoryNegativeOnlyB0:
		return r.Negative.OnlyB0
	default:
		return nil
	}
}

// Total counts rows across all four collections.
func (r *ClassificationResult) Total() int {
	n := 0
	for _, c := range Categories {
		n += len(r.Rows(c))
	}
	return n
}
