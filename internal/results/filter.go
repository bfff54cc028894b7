package results

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/search-term-analyzer/internal/model"
)

// FilterType selects the ACOS comparison.
type FilterType string

// Filter types.
const (
	FilterNone    FilterType = "none"
	FilterGreater FilterType = "greater"
	FilterLess    FilterType = "less"
	FilterEqual   FilterType = "equal"
)

// FilterTypes lists the filter types in selector order.
var FilterTypes = []FilterType{FilterNone, FilterGreater, FilterLess, FilterEqual}

// ParseFilterType maps user input to a filter type. Unknown input means no
// filter rather than an error.
func ParseFilterType(s string) FilterType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "greater", "gt", ">":
		return FilterGreater
	case "less", "lt", "<":
		return FilterLess
	case "equal", "eq", "=", "==":
		return FilterEqual
	default:
		return FilterNone
	}
}

// Next cycles through the selector options.
func (t FilterType) Next() FilterType {
	for i, ft := range FilterTypes {
		if ft == t {
			return FilterTypes[(i+1)%len(FilterTypes)]
		}
	}
	return FilterNone
}

// Label is the selector caption for the filter type.
func (t FilterType) Label() string {
	switch t {
	case FilterGreater:
		return "Greater Than"
	case FilterLess:
		return "Less Than"
	case FilterEqual:
		return "Equals To"
	default:
		return "No Filter"
	}
}

// FilterSpec is the ACOS filter of a store. Value keeps the raw user input.
type FilterSpec struct {
	Type  FilterType
	Value string
}

// leadingFloat matches the decimal number a lenient numeric field reads
// from the start of its input. Hex and other radix prefixes are not numbers
// here: "0x10" reads as 0.
var leadingFloat = regexp.MustCompile(`^[+-]?(?:Infinity|(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?)`)

// Threshold parses the filter value. Leading spaces are skipped and the
// longest leading number is used, so "15%" is 15. It reports false when the
// input does not start with a number, in which case the filter does nothing.
func (f FilterSpec) Threshold() (float64, bool) {
	text := strings.TrimLeft(f.Value, " \t\r\n")
	prefix := leadingFloat.FindString(text)
	if prefix == "" {
		return 0, false
	}

	var v float64
	switch strings.TrimLeft(prefix, "+-") {
	case "Infinity":
		v = math.Inf(1)
		if prefix[0] == '-' {
			v = math.Inf(-1)
		}
	default:
		var err error
		// Out-of-range input saturates to ±Inf, which ParseFloat returns
		// alongside its range error.
		v, err = strconv.ParseFloat(prefix, 64)
		if err != nil && !math.IsInf(v, 0) {
			return 0, false
		}
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Active reports whether applying the filter can drop rows.
func (f FilterSpec) Active() bool {
	if f.Type == FilterNone || f.Type == "" {
		return false
	}
	_, ok := f.Threshold()
	return ok
}

// Filter keeps the rows whose ACOS satisfies the filter. Rows without a
// computed ACOS never pass a typed filter. An inactive spec returns rows
// unchanged, null-ACOS rows included.
func Filter(rows []model.Row, spec FilterSpec) []model.Row {
	if !spec.Active() {
		return rows
	}
	threshold, _ := spec.Threshold()

	kept := make([]model.Row, 0, len(rows))
	for _, row := range rows {
		acos, ok := row.ACOS()
		if !ok {
			continue
		}
		if matches(spec.Type, acos, threshold) {
			kept = append(kept, row)
		}
	}
	return kept
}

// FilterFor applies spec only when the category is positive. Negative
// categories pass through untouched.
func FilterFor(category model.Category, rows []model.Row, spec FilterSpec) []model.Row {
	if !category.IsPositive() {
		return rows
	}
	return Filter(rows, spec)
}

func matches(t FilterType, acos, threshold float64) bool {
	switch t {
	case FilterGreater:
		return acos > threshold
	case FilterLess:
		return acos < threshold
	case FilterEqual:
		return acos == threshold
	default:
		return true
	}
}
