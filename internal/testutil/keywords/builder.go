package keywords

import (
	"fmt"
	"testing"

	"github.com/Veraticus/search-term-analyzer/internal/model"
)

// Builder provides a fluent interface for constructing classification results.
type Builder interface {
	// WithRow appends a prepared row to a category.
	WithRow(category model.Category, row model.Row) Builder

	// WithTerm appends a row with the given term, ACOS and order count.
	WithTerm(category model.Category, term string, acos model.Value, orders float64) Builder

	// WithTerms appends one row per term with a null ACOS and one order.
	WithTerms(category model.Category, terms ...string) Builder

	// WithNumbered appends n rows named "term-01" onward, ACOS rising by 0.01.
	WithNumbered(category model.Category, n int) Builder

	// WithFixture appends every row of a fixture.
	WithFixture(fixture Fixture) Builder

	// Build returns the result. Categories without rows are empty, not nil.
	Build() model.ClassificationResult
}

// Term builds a row in the shape the classification service returns.
func Term(term string, acos model.Value, orders float64) model.Row {
	return model.Row{
		model.FieldSearchTerm: model.String(term),
		model.FieldCampaign:   model.String("Campaign A"),
		model.FieldAdGroup:    model.String("Ad Group 1"),
		model.FieldMatchType:  model.String("EXACT"),
		model.FieldOrders:     model.Number(orders),
		model.FieldSales:      model.Number(orders * 25),
		model.FieldSpend:      model.Number(orders * 5),
		model.FieldACOS:       acos,
		model.FieldClicks:     model.Number(orders * 4),
	}
}

// TermsOf returns the search term of each row, for order assertions.
func TermsOf(rows []model.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Get(model.FieldSearchTerm).Text()
	}
	return out
}

type resultBuilder struct {
	t    *testing.T
	rows map[model.Category][]model.Row
}

// NewBuilder creates a builder for the given test.
func NewBuilder(t *testing.T) Builder {
	t.Helper()
	return &resultBuilder{
		t:    t,
		rows: make(map[model.Category][]model.Row),
	}
}

func (b *resultBuilder) WithRow(category model.Category, row model.Row) Builder {
	b.rows[category] = append(b.rows[category], row)
	return b
}

func (b *resultBuilder) WithTerm(category model.Category, term string, acos model.Value, orders float64) Builder {
	return b.WithRow(category, Term(term, acos, orders))
}

func (b *resultBuilder) WithTerms(category model.Category, terms ...string) Builder {
	for _, term := range terms {
		b.WithTerm(category, term, model.Null(), 1)
	}
	return b
}

func (b *resultBuilder) WithNumbered(category model.Category, n int) Builder {
	for i := 1; i <= n; i++ {
		b.WithTerm(category, fmt.Sprintf("term-%02d", i), model.Number(float64(i)/100), float64(i))
	}
	return b
}

func (b *resultBuilder) WithFixture(fixture Fixture) Builder {
	for _, c := range model.Categories {
		for _, row := range fixture.Rows(c) {
			b.WithRow(c, row)
		}
	}
	return b
}

func (b *resultBuilder) Build() model.ClassificationResult {
	b.t.Helper()
	return model.ClassificationResult{
		Positive: model.Bucket{
			NoB0:   b.collection(model.CategoryPositiveNoB0),
			OnlyB0: b.collection(model.CategoryPositiveOnlyB0),
		},
		Negative: model.Bucket{
			NoB0:   b.collection(model.CategoryNegativeNoB0),
			OnlyB0: b.collection(model.CategoryNegativeOnlyB0),
		},
	}
}

func (b *resultBuilder) collection(c model.Category) []model.Row {
	rows := make([]model.Row, len(b.rows[c]))
	copy(rows, b.rows[c])
	return rows
}
