package results

import (
	"strconv"
	"strings"

	"github.com/Veraticus/search-term-analyzer/internal/model"
)

// DefaultLimit is the number of rows a table shows before the user changes it.
const DefaultLimit = 10

// Presets are the selectable display limits.
var Presets = []int{10, 25, 50, 100, 250, 500}

// Counts is the "showing N of M" pair of a table.
type Counts struct {
	Shown int
	Total int
}

// Window returns the first limit rows. Limits below 1 are treated as 1.
// The result shares backing storage with rows but cannot grow into it.
func Window(rows []model.Row, limit int) []model.Row {
	n := EffectiveLimit(limit, len(rows))
	return rows[:n:n]
}

// EffectiveLimit clamps a requested limit to [1, total], or 0 for an empty table.
func EffectiveLimit(limit, total int) int {
	if limit < 1 {
		limit = 1
	}
	return min(limit, total)
}

// ParseLimit accepts only positive integers.
func ParseLimit(input string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// NextPreset returns the smallest preset above current, or the largest preset.
func NextPreset(current int) int {
	for _, p := range Presets {
		if p > current {
			return p
		}
	}
	return Presets[len(Presets)-1]
}

// PrevPreset returns the largest preset below current, or the smallest preset.
func PrevPreset(current int) int {
	for i := len(Presets) - 1; i >= 0; i-- {
		if Presets[i] < current {
			return Presets[i]
		}
	}
	return Presets[0]
}

// LimitInput is a free-form limit field. Edits commit only when they parse
// as a positive integer; leaving the field forces a value of at least 1.
type LimitInput struct {
	text      string
	committed int
}

// NewLimitInput starts a field showing limit.
func NewLimitInput(limit int) LimitInput {
	if limit < 1 {
		limit = DefaultLimit
	}
	return LimitInput{text: strconv.Itoa(limit), committed: limit}
}

// Change records the current text and reports whether it was committed.
func (l *LimitInput) Change(text string) bool {
	l.text = text
	n, ok := ParseLimit(text)
	if ok {
		l.committed = n
	}
	return ok
}

// Blur commits the field as it is left. Empty, non-numeric or sub-1 text
// becomes 1.
func (l *LimitInput) Blur() int {
	n, ok := ParseLimit(l.text)
	if !ok {
		n = 1
	}
	l.committed = n
	l.text = strconv.Itoa(n)
	return n
}

// Text is the text currently in the field.
func (l LimitInput) Text() string {
	return l.text
}

// Limit is the last committed limit.
func (l LimitInput) Limit() int {
	return l.committed
}
