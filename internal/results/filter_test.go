package results

import (
	"testing"

	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/stretchr/testify/assert"
)

func acosRows() []model.Row {
	return []model.Row{
		termRow("shoe", model.Number(15), 3),
		termRow("boot", model.Null(), 1),
		termRow("sock", model.Number(10), 2),
		termRow("hat", model.Number(4.5), 1),
		{model.FieldSearchTerm: model.String("scarf")},
	}
}

func TestFilter_Scenario(t *testing.T) {
	rows := []model.Row{
		termRow("shoe", model.Number(15), 3),
		termRow("boot", model.Null(), 1),
	}

	got := Filter(rows, FilterSpec{Type: FilterGreater, Value: "10"})
	assert.Equal(t, []string{"shoe"}, terms(got))
}

func TestFilter_Types(t *testing.T) {
	tests := []struct {
		name string
		spec FilterSpec
		want []string
	}{
		{name: "greater", spec: FilterSpec{Type: FilterGreater, Value: "10"}, want: []string{"shoe"}},
		{name: "less", spec: FilterSpec{Type: FilterLess, Value: "10"}, want: []string{"hat"}},
		{name: "equal", spec: FilterSpec{Type: FilterEqual, Value: "10"}, want: []string{"sock"}},
		{name: "equal decimal", spec: FilterSpec{Type: FilterEqual, Value: " 4.5 "}, want: []string{"hat"}},
		{name: "percent sign is ignored", spec: FilterSpec{Type: FilterLess, Value: "15%"}, want: []string{"sock", "hat"}},
		{name: "trailing text is ignored", spec: FilterSpec{Type: FilterEqual, Value: "15abc"}, want: []string{"shoe"}},
		{name: "hex reads as zero", spec: FilterSpec{Type: FilterGreater, Value: "0x10"}, want: []string{"shoe", "sock", "hat"}},
		{name: "explicit sign", spec: FilterSpec{Type: FilterGreater, Value: "+10"}, want: []string{"shoe"}},
		{name: "none keeps null acos", spec: FilterSpec{Type: FilterNone, Value: "10"}, want: []string{"shoe", "boot", "sock", "hat", "scarf"}},
		{name: "unparsable value is a no-op", spec: FilterSpec{Type: FilterGreater, Value: "abc"}, want: []string{"shoe", "boot", "sock", "hat", "scarf"}},
		{name: "empty value is a no-op", spec: FilterSpec{Type: FilterLess}, want: []string{"shoe", "boot", "sock", "hat", "scarf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, terms(Filter(acosRows(), tt.spec)))
		})
	}
}

func TestFilterSpec_Threshold(t *testing.T) {
	tests := []struct {
		value  string
		want   float64
		wantOK bool
	}{
		{value: "15", want: 15, wantOK: true},
		{value: " 4.5 ", want: 4.5, wantOK: true},
		{value: "15%", want: 15, wantOK: true},
		{value: "15abc", want: 15, wantOK: true},
		{value: "0x10", want: 0, wantOK: true},
		{value: "-2.5e1x", want: -25, wantOK: true},
		{value: ".5", want: 0.5, wantOK: true},
		{value: "1e", want: 1, wantOK: true},
		{value: "", wantOK: false},
		{value: "abc", wantOK: false},
		{value: ".", wantOK: false},
		{value: "%15", wantOK: false},
		{value: "NaN", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := FilterSpec{Type: FilterGreater, Value: tt.value}.Threshold()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestFilter_NoneIsIdentity(t *testing.T) {
	rows := acosRows()
	got := Filter(rows, FilterSpec{Type: FilterNone})

	assert.Len(t, got, len(rows))
	for i := range rows {
		assert.Equal(t, rows[i], got[i])
	}
	assert.Same(t, &rows[0], &got[0], "identity returns the same backing rows")
}

func TestFilter_PartitionsPositiveCollection(t *testing.T) {
	rows := acosRows()
	for _, v := range []string{"10", "4.5", "0", "100"} {
		gt := Filter(rows, FilterSpec{Type: FilterGreater, Value: v})
		lt := Filter(rows, FilterSpec{Type: FilterLess, Value: v})
		eq := Filter(rows, FilterSpec{Type: FilterEqual, Value: v})

		seen := make(map[string]int)
		for _, set := range [][]model.Row{gt, lt, eq} {
			for _, term := range terms(set) {
				seen[term]++
			}
		}
		for _, r := range rows {
			if _, ok := r.ACOS(); !ok {
				seen[r.Get(model.FieldSearchTerm).Text()]++
			}
		}

		assert.Len(t, seen, len(rows), "value %s: union reconstructs the collection", v)
		for term, n := range seen {
			assert.Equal(t, 1, n, "value %s: %s appears in exactly one partition", v, term)
		}
	}
}

func TestFilterFor_NegativeUntouched(t *testing.T) {
	rows := acosRows()
	specs := []FilterSpec{
		{Type: FilterGreater, Value: "10"},
		{Type: FilterLess, Value: "1"},
		{Type: FilterEqual, Value: "15"},
	}

	for _, spec := range specs {
		for _, c := range []model.Category{model.CategoryNegativeNoB0, model.CategoryNegativeOnlyB0} {
			assert.Equal(t, terms(rows), terms(FilterFor(c, rows, spec)))
		}
		assert.NotEqual(t, len(rows), len(FilterFor(model.CategoryPositiveOnlyB0, rows, spec)))
	}
}

func TestParseFilterType(t *testing.T) {
	assert.Equal(t, FilterGreater, ParseFilterType("gt"))
	assert.Equal(t, FilterLess, ParseFilterType("Less"))
	assert.Equal(t, FilterEqual, ParseFilterType("="))
	assert.Equal(t, FilterNone, ParseFilterType("between"))
	assert.Equal(t, FilterGreater, FilterNone.Next())
	assert.Equal(t, FilterNone, FilterEqual.Next())
}
