// Package results derives the rendered views of a classification result:
// filtering by ACOS, sorting by a column, and limiting each table to a
// display window. Raw collections are never modified.
package results

import (
	"slices"
	"sort"
	"strings"

	"github.com/Veraticus/search-term-analyzer/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts asc/desc in any case; anything else is descending,
// which is also the first-click default.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Ascending)) {
		return Ascending
	}
	return Descending
}

// Toggle flips the direction.
func (d Direction) Toggle() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// Arrow returns the header indicator for the direction.
func (d Direction) Arrow() string {
	if d == Ascending {
		return "↑"
	}
	return "↓"
}

// SortSpec is the single active sort of a store.
type SortSpec struct {
	Category  model.Category `json:"category"`
	Field     string         `json:"field"`
	Direction Direction      `json:"direction"`
}

// NextSortSpec is the transition taken when a column header is activated.
// Re-activating the column that is already sorted flips its direction;
// any other column, or the same column in another table, starts descending.
func NextSortSpec(current *SortSpec, field string, category model.Category) SortSpec {
	if current != nil && current.Field == field && current.Category == category {
		return SortSpec{Category: category, Field: field, Direction: current.Direction.Toggle()}
	}
	return SortSpec{Category: category, Field: field, Direction: Descending}
}

// Sort returns a copy of rows ordered by field. Numbers compare numerically,
// everything else by English collation. Rows whose field is null or absent
// go last in both directions. Equal keys keep their incoming order.
func Sort(rows []model.Row, field string, dir Direction) []model.Row {
	out := slices.Clone(rows)
	col := collate.New(language.English)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Get(field), out[j].Get(field)
		if a.IsNull() || b.IsNull() {
			return !a.IsNull() && b.IsNull()
		}
		c := compareValues(col, a, b)
		if dir == Ascending {
			return c < 0
		}
		return c > 0
	})

	return out
}

// compareValues orders two non-null values.
func compareValues(col *collate.Collator, a, b model.Value) int {
	af, aNum := a.Float()
	bf, bNum := b.Float()
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	as, bs := a.Text(), b.Text()
	if c := col.CompareString(as, bs); c != 0 {
		return c
	}
	return strings.Compare(as, bs)
}
