package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/results"
	"github.com/Veraticus/search-term-analyzer/internal/testutil/keywords"
	"github.com/Veraticus/search-term-analyzer/internal/tui/themes"
)

func storeWith(t *testing.T, result model.ClassificationResult) *results.Store {
	t.Helper()
	store := results.NewStore()
	store.ReceiveResult(result)
	return store
}

func TestResultTable_SetViewAndSelection(t *testing.T) {
	store := storeWith(t, keywords.NewBuilder(t).WithFixture(keywords.FixtureStandard).Build())

	rt := NewResultTable(model.ProductTypeProducts, model.CategoryPositiveNoB0, themes.Default)
	rt.Focus()
	rt.SetView(store.View(model.CategoryPositiveNoB0))

	term, ok := rt.SelectedTerm()
	require.True(t, ok)
	assert.Equal(t, "blue widget", term)

	rt.MoveDown(1)
	term, _ = rt.SelectedTerm()
	assert.Equal(t, "red widget", term)

	rt.MoveDown(5)
	term, _ = rt.SelectedTerm()
	assert.Equal(t, "red widget", term, "cursor stops at the last row")

	rt.GotoTop()
	term, _ = rt.SelectedTerm()
	assert.Equal(t, "blue widget", term)

	assert.Equal(t, "Positive (Non-B0) (Showing 2 of 2)", rt.Title())
}

func TestResultTable_CursorClampedWhenRowsShrink(t *testing.T) {
	store := storeWith(t, keywords.NewBuilder(t).WithNumbered(model.CategoryNegativeNoB0, 30).Build())

	rt := NewResultTable(model.ProductTypeBrands, model.CategoryNegativeNoB0, themes.Default)
	rt.Focus()
	store.SetLimit(model.CategoryNegativeNoB0, 25)
	rt.SetView(store.View(model.CategoryNegativeNoB0))
	rt.GotoBottom()

	store.SetLimit(model.CategoryNegativeNoB0, 10)
	rt.SetView(store.View(model.CategoryNegativeNoB0))

	term, ok := rt.SelectedTerm()
	require.True(t, ok)
	assert.Equal(t, "term-10", term)
}

func TestResultTable_MoveColumnWraps(t *testing.T) {
	rt := NewResultTable(model.ProductTypeProducts, model.CategoryPositiveOnlyB0, themes.Default)
	columns := model.ProductTypeProducts.Columns()

	assert.Equal(t, columns[0].Field, rt.SelectedColumn().Field)

	rt.MoveColumn(-1)
	assert.Equal(t, columns[len(columns)-1].Field, rt.SelectedColumn().Field)

	rt.MoveColumn(2)
	assert.Equal(t, columns[1].Field, rt.SelectedColumn().Field)
}

func TestResultTable_EmptyView(t *testing.T) {
	store := storeWith(t, keywords.NewBuilder(t).Build())

	rt := NewResultTable(model.ProductTypeDisplay, model.CategoryNegativeOnlyB0, themes.Default)
	rt.SetView(store.View(model.CategoryNegativeOnlyB0))

	_, ok := rt.SelectedTerm()
	assert.False(t, ok)
	assert.Contains(t, rt.View(), "No keywords in this category")
}

func TestResultTable_SortArrowInHeader(t *testing.T) {
	store := storeWith(t, keywords.NewBuilder(t).WithFixture(keywords.FixtureMixedACOS).Build())
	store.SetSort(model.FieldACOS, model.CategoryPositiveNoB0)

	rt := NewResultTable(model.ProductTypeProducts, model.CategoryPositiveNoB0, themes.Default)
	rt.SetView(store.View(model.CategoryPositiveNoB0))

	assert.Contains(t, rt.View(), "ACOS ↓")
	term, _ := rt.SelectedTerm()
	assert.Equal(t, "beta", term)
}
