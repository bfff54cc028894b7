package model

import "fmt"

// Category identifies one of the four classified row collections.
type Category string

const (
	// CategoryPositiveNoB0 holds positive free-text terms.
	CategoryPositiveNoB0 Category = "positive_no_b0"
	// CategoryPositiveOnlyB0 holds positive ASIN ("B0…") terms.
	CategoryPositiveOnlyB0 Category = "positive_only_b0"
	// CategoryNegativeNoB0 holds negative free-text terms.
	CategoryNegativeNoB0 Category = "negative_no_b0"
	// CategoryNegativeOnlyB0 holds negative ASIN ("B0…") terms.
	CategoryNegativeOnlyB0 Category = "negative_only_b0"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryPositiveNoB0,
	CategoryPositiveOnlyB0,
	CategoryNegativeNoB0,
	CategoryNegativeOnlyB0,
}

// IsPositive reports whether the category holds positive keywords.
// Only positive categories are subject to the ACOS filter.
func (c Category) IsPositive() bool {
	return c == CategoryPositiveNoB0 || c == CategoryPositiveOnlyB0
}

// Title returns the table heading for the category.
func (c Category) Title() string {
	switch c {
	case CategoryPositiveNoB0:
		return "Positive (Non-B0)"
	case CategoryPositiveOnlyB0:
		return "Positive (B0 Only)"
	case CategoryNegativeNoB0:
		return "Negative (Non-B0)"
	case CategoryNegativeOnlyB0:
		return "Negative (B0 Only)"
	default:
		return string(c)
	}
}

// ParseCategory validates a category name. The short aliases used by the
// results page (pos-non-b0, pos-b0, neg-non-b0, neg-b0) are accepted too.
func ParseCategory(s string) (Category, error) {
	switch s {
	case string(CategoryPositiveNoB0), "pos-non-b0":
		return CategoryPositiveNoB0, nil
	case string(CategoryPositiveOnlyB0), "pos-b0":
		return CategoryPositiveOnlyB0, nil
	case string(CategoryNegativeNoB0), "neg-non-b0":
		return CategoryNegativeNoB0, nil
	case string(CategoryNegativeOnlyB0), "neg-b0":
		return CategoryNegativeOnlyB0, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}
