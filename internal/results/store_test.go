package results

import (
	"testing"

	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() model.ClassificationResult {
	return model.ClassificationResult{
		Positive: model.Bucket{
			NoB0: []model.Row{
				termRow("shoe", model.Number(15), 3),
				termRow("boot", model.Null(), 1),
				termRow("sandal", model.Number(8), 5),
			},
			OnlyB0: []model.Row{
				termRow("B0ABC", model.Number(22), 2),
			},
		},
		Negative: model.Bucket{
			NoB0: numberedRows(25),
			OnlyB0: []model.Row{
				termRow("B0XYZ", model.Null(), 0),
			},
		},
	}
}

func TestStore_Idle(t *testing.T) {
	s := NewStore()
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Result())

	view := s.View(model.CategoryPositiveNoB0)
	assert.Empty(t, view.Rows)
	assert.Equal(t, Counts{}, view.Counts)
}

func TestStore_DefaultLimitCounts(t *testing.T) {
	s := NewStore()
	s.ReceiveResult(sampleResult())
	assert.Equal(t, StateLoaded, s.State())

	view := s.View(model.CategoryNegativeNoB0)
	assert.Equal(t, Counts{Shown: 10, Total: 25}, view.Counts)
	assert.Len(t, view.Rows, 10)
}

func TestStore_LimitsAreIndependent(t *testing.T) {
	s := NewStore()
	s.ReceiveResult(sampleResult())

	s.SetLimit(model.CategoryNegativeNoB0, 5)
	assert.Equal(t, 5, s.View(model.CategoryNegativeNoB0).Counts.Shown)
	assert.Equal(t, DefaultLimit, s.Limit(model.CategoryPositiveNoB0))
	assert.Equal(t, DefaultLimit, s.Limit(model.CategoryNegativeOnlyB0))

	s.SetLimit(model.CategoryNegativeNoB0, 0)
	assert.Equal(t, 1, s.Limit(model.CategoryNegativeNoB0))
}

func TestStore_FilterAppliesToPositiveOnly(t *testing.T) {
	s := NewStore()
	s.ReceiveResult(sampleResult())
	s.SetFilter(FilterSpec{Type: FilterGreater, Value: "10"})

	assert.Equal(t, []string{"shoe"}, terms(s.View(model.CategoryPositiveNoB0).Rows))
	assert.Equal(t, []string{"B0ABC"}, terms(s.View(model.CategoryPositiveOnlyB0).Rows))
	assert.Equal(t, []string{"B0XYZ"}, terms(s.View(model.CategoryNegativeOnlyB0).Rows))
	assert.Equal(t, 25, s.View(model.CategoryNegativeNoB0).Counts.Total)
}

func TestStore_SortScopedToCategory(t *testing.T) {
	s := NewStore()
	s.ReceiveResult(sampleResult())

	spec := s.SetSort(model.FieldOrders, model.CategoryPositiveNoB0)
	assert.Equal(t, Descending, spec.Direction)

	view := s.View(model.CategoryPositiveNoB0)
	require.NotNil(t, view.Sort)
	assert.Equal(t, []string{"sandal", "shoe", "boot"}, terms(view.Rows))

	negative := s.View(model.CategoryNegativeNoB0)
	assert.Nil(t, negative.Sort)
	assert.Equal(t, "term-00", negative.Rows[0].Get(model.FieldSearchTerm).Text(), "other categories stay in natural order")

	s.SetSort(model.FieldOrders, model.CategoryNegativeNoB0)
	assert.Equal(t, []string{"shoe", "boot", "sandal"}, terms(s.View(model.CategoryPositiveNoB0).Rows),
		"moving the sort to another table restores natural order")
}

func TestStore_SortToggle(t *testing.T) {
	s := NewStore()
	s.ReceiveResult(sampleResult())

	s.SetSort(model.FieldOrders, model.CategoryPositiveNoB0)
	spec := s.SetSort(model.FieldOrders, model.CategoryPositiveNoB0)
	assert.Equal(t, Ascending, spec.Direction)
	assert.Equal(t, []string{"boot", "shoe", "sandal"}, terms(s.View(model.CategoryPositiveNoB0).Rows))

	s.ClearSort()
	_, ok := s.Sort()
	assert.False(t, ok)
	assert.Equal(t, []string{"shoe", "boot", "sandal"}, terms(s.View(model.CategoryPositiveNoB0).Rows))
}

func TestStore_ReceiveResultKeepsSortResetsLimits(t *testing.T) {
	s := NewStore()
	s.ReceiveResult(sampleResult())
	s.SetSort(model.FieldACOS, model.CategoryPositiveNoB0)
	s.SetFilter(FilterSpec{Type: FilterLess, Value: "20"})
	s.SetLimit(model.CategoryPositiveNoB0, 2)

	next := sampleResult()
	next.Positive.NoB0 = append(next.Positive.NoB0, termRow("slipper", model.Number(1), 9))
	s.ReceiveResult(next)

	spec, ok := s.Sort()
	require.True(t, ok, "sort survives re-analysis")
	assert.Equal(t, model.FieldACOS, spec.Field)
	assert.Equal(t, FilterLess, s.Filter().Type)
	assert.Equal(t, DefaultLimit, s.Limit(model.CategoryPositiveNoB0))

	assert.Equal(t, []string{"shoe", "sandal", "slipper"}, terms(s.View(model.CategoryPositiveNoB0).Rows))
}

func TestStore_ViewNeverMutatesResult(t *testing.T) {
	s := NewStore()
	s.ReceiveResult(sampleResult())
	s.SetFilter(FilterSpec{Type: FilterGreater, Value: "1"})
	s.SetSort(model.FieldSearchTerm, model.CategoryPositiveNoB0)
	_ = s.Views()

	s.SetFilter(FilterSpec{Type: FilterNone})
	s.ClearSort()
	assert.Equal(t, []string{"shoe", "boot", "sandal"}, terms(s.View(model.CategoryPositiveNoB0).Rows))
	assert.Equal(t, []string{"shoe", "boot", "sandal"}, terms(s.Result().Positive.NoB0))
}

func TestStore_Views(t *testing.T) {
	s := NewStore()
	s.ReceiveResult(sampleResult())

	views := s.Views()
	require.Len(t, views, 4)
	for i, c := range model.Categories {
		assert.Equal(t, c, views[i].Category)
	}
}
