package keywords

import (
	"testing"

	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_KeepsInsertionOrder(t *testing.T) {
	res := NewBuilder(t).
		WithTerms(model.CategoryNegativeNoB0, "c", "a", "b").
		Build()

	assert.Equal(t, []string{"c", "a", "b"}, TermsOf(res.Negative.NoB0))
	assert.NotNil(t, res.Positive.NoB0)
	assert.Empty(t, res.Positive.NoB0)
}

func TestBuilder_WithFixture(t *testing.T) {
	res := NewBuilder(t).WithFixture(FixtureStandard).Build()

	assert.Equal(t, 8, res.Total())
	for _, c := range model.Categories {
		assert.Len(t, res.Rows(c), 2, c)
	}
}

func TestBuilder_WithNumbered(t *testing.T) {
	res := NewBuilder(t).WithNumbered(model.CategoryPositiveOnlyB0, 12).Build()

	require.Len(t, res.Positive.OnlyB0, 12)
	assert.Equal(t, "term-01", TermsOf(res.Positive.OnlyB0)[0])
	acos, ok := res.Positive.OnlyB0[11].ACOS()
	require.True(t, ok)
	assert.InDelta(t, 0.12, acos, 1e-9)
}

func TestBuilder_BuildsAreIndependent(t *testing.T) {
	b := NewBuilder(t).WithTerms(model.CategoryPositiveNoB0, "one")
	first := b.Build()
	b.WithTerms(model.CategoryPositiveNoB0, "two")
	second := b.Build()

	assert.Len(t, first.Positive.NoB0, 1)
	assert.Len(t, second.Positive.NoB0, 2)
}
