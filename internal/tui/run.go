package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/search-term-analyzer/internal/session"
)

// Run starts the browser for a workspace and blocks until the user quits or
// ctx is canceled.
func Run(ctx context.Context, workspace *session.Workspace, opts ...Option) error {
	if workspace == nil {
		return fmt.Errorf("workspace is required")
	}

	p := tea.NewProgram(
		New(ctx, workspace, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
