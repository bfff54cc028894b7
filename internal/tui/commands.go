package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/search-term-analyzer/internal/session"
)

// analyze submits the session off the event loop.
func analyze(ctx context.Context, s *session.Session) tea.Cmd {
	pt := s.ProductType()
	return func() tea.Msg {
		return analyzeDoneMsg{productType: pt, err: s.Submit(ctx)}
	}
}

// download saves the server-rendered spreadsheet off the event loop.
func download(ctx context.Context, s *session.Session, dir string) tea.Cmd {
	pt := s.ProductType()
	return func() tea.Msg {
		path, err := s.ExportArtifact(ctx, dir)
		return exportDoneMsg{productType: pt, path: path, err: err}
	}
}

// copyTerm writes a keyword to the clipboard.
func copyTerm(write func(string) error, term string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{term: term, err: write(term)}
	}
}
