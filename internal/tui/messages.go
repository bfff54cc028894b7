package tui

import "github.com/Veraticus/search-term-analyzer/internal/model"

// Async operation messages.
type analyzeDoneMsg struct {
	err         error
	productType model.ProductType
}

type exportDoneMsg struct {
	err         error
	productType model.ProductType
	path        string
}

type copiedMsg struct {
	err  error
	term string
}

// InputMode identifies which field, if any, has keyboard focus.
type InputMode int

const (
	InputNone InputMode = iota
	InputSearchFile
	InputTargetingFile
	InputThreshold
	InputFilterValue
	InputLimit
)

// Label is the prompt shown in front of the input.
func (m InputMode) Label() string {
	switch m {
	case InputSearchFile:
		return "Search term file"
	case InputTargetingFile:
		return "Targeting file"
	case InputThreshold:
		return "Positive order threshold"
	case InputFilterValue:
		return "ACOS value"
	case InputLimit:
		return "Rows to show"
	default:
		return ""
	}
}
