package results

import (
	"github.com/Veraticus/search-term-analyzer/internal/model"
)

// State is the lifecycle state of a Store.
type State int

const (
	// StateIdle means no result has been received yet.
	StateIdle State = iota
	// StateLoaded means a result is held.
	StateLoaded
)

// View is the derived, render-ready form of one category.
type View struct {
	Sort     *SortSpec
	Category model.Category
	Rows     []model.Row
	Counts   Counts
}

// Store holds the latest classification result and the UI state applied on
// top of it. It is not safe for concurrent use.
type Store struct {
	result *model.ClassificationResult
	sort   *SortSpec
	limits map[model.Category]int
	filter FilterSpec
}

// NewStore returns an idle store.
func NewStore() *Store {
	return &Store{
		filter: FilterSpec{Type: FilterNone},
		limits: defaultLimits(),
	}
}

func defaultLimits() map[model.Category]int {
	limits := make(map[model.Category]int, len(model.Categories))
	for _, c := range model.Categories {
		limits[c] = DefaultLimit
	}
	return limits
}

// State reports whether a result has been received.
func (s *Store) State() State {
	if s.result == nil {
		return StateIdle
	}
	return StateLoaded
}

// Result returns the held result, or nil while idle.
func (s *Store) Result() *model.ClassificationResult {
	return s.result
}

// ReceiveResult replaces the held result. The sort and filter carry over;
// every table limit goes back to the default.
func (s *Store) ReceiveResult(result model.ClassificationResult) {
	s.result = &result
	s.limits = defaultLimits()
}

// SetSort activates a column header and returns the new sort.
func (s *Store) SetSort(field string, category model.Category) SortSpec {
	next := NextSortSpec(s.sort, field, category)
	s.sort = &next
	return next
}

// ClearSort returns every table to natural order.
func (s *Store) ClearSort() {
	s.sort = nil
}

// Sort returns the active sort, if any.
func (s *Store) Sort() (SortSpec, bool) {
	if s.sort == nil {
		return SortSpec{}, false
	}
	return *s.sort, true
}

// SetFilter replaces the ACOS filter.
func (s *Store) SetFilter(spec FilterSpec) {
	if spec.Type == "" {
		spec.Type = FilterNone
	}
	s.filter = spec
}

// Filter returns the ACOS filter.
func (s *Store) Filter() FilterSpec {
	return s.filter
}

// SetLimit changes the display limit of one category. Limits below 1 become 1.
func (s *Store) SetLimit(category model.Category, limit int) {
	s.limits[category] = max(limit, 1)
}

// Limit returns the display limit of a category.
func (s *Store) Limit(category model.Category) int {
	if l, ok := s.limits[category]; ok {
		return l
	}
	return DefaultLimit
}

// View derives the rows to render for a category: filter (positive
// categories only), then sort (only if the active sort targets this
// category), then the display window.
func (s *Store) View(category model.Category) View {
	rows := FilterFor(category, s.result.Rows(category), s.filter)

	var applied *SortSpec
	if s.sort != nil && s.sort.Category == category {
		spec := *s.sort
		applied = &spec
		rows = Sort(rows, spec.Field, spec.Direction)
	}

	shown := Window(rows, s.Limit(category))
	return View{
		Category: category,
		Rows:     shown,
		Sort:     applied,
		Counts:   Counts{Shown: len(shown), Total: len(rows)},
	}
}

// Views derives every category in display order.
func (s *Store) Views() []View {
	views := make([]View, 0, len(model.Categories))
	for _, c := range model.Categories {
		views = append(views, s.View(c))
	}
	return views
}
