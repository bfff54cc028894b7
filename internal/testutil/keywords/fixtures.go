package keywords

import "github.com/Veraticus/search-term-analyzer/internal/model"

// Fixture is a predefined set of rows per category.
type Fixture interface {
	// Name returns the fixture's descriptive name.
	Name() string

	// Rows returns the rows seeded into a category.
	Rows(category model.Category) []model.Row
}

type fixture struct {
	rows map[model.Category][]model.Row
	name string
}

func (f *fixture) Name() string                             { return f.name }
func (f *fixture) Rows(category model.Category) []model.Row { return f.rows[category] }

// Predefined fixtures for common test scenarios.
var (
	// FixtureMixedACOS puts numeric and null ACOS values in the positive
	// non-B0 table: 0.1, 0.5, null, 0.3.
	FixtureMixedACOS = &fixture{
		name: "MixedACOS",
		rows: map[model.Category][]model.Row{
			model.CategoryPositiveNoB0: {
				Term("alpha", model.Number(0.1), 5),
				Term("beta", model.Number(0.5), 2),
				Term("gamma", model.Null(), 1),
				Term("delta", model.Number(0.3), 9),
			},
		},
	}

	// FixtureStandard seeds two rows into every category.
	FixtureStandard = &fixture{
		name: "Standard",
		rows: map[model.Category][]model.Row{
			model.CategoryPositiveNoB0: {
				Term("blue widget", model.Number(0.21), 4),
				Term("red widget", model.Number(0.35), 2),
			},
			model.CategoryPositiveOnlyB0: {
				Term("b0abc12345", model.Number(0.4), 3),
				Term("b0xyz98765", model.Null(), 1),
			},
			model.CategoryNegativeNoB0: {
				Term("cheap widget", model.Null(), 0),
				Term("widget repair", model.Number(2.5), 0),
			},
			model.CategoryNegativeOnlyB0: {
				Term("b0zzz00000", model.Null(), 0),
				Term("b0yyy11111", model.Null(), 0),
			},
		},
	}
)
