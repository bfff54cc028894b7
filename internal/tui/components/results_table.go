// Package components holds the reusable bubbletea widgets of the browser.
package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/search-term-analyzer/internal/cli"
	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/results"
	"github.com/Veraticus/search-term-analyzer/internal/tui/themes"
)

// ResultTable renders one derived category view and tracks the column the
// user has selected for sorting.
type ResultTable struct {
	theme       themes.Theme
	view        results.View
	columns     []model.Column
	table       table.Model
	productType model.ProductType
	column      int
	focused     bool
}

// NewResultTable creates an empty table for a category of a product type.
func NewResultTable(productType model.ProductType, category model.Category, theme themes.Theme) ResultTable {
	t := table.New(
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	rt := ResultTable{
		theme:       theme,
		productType: productType,
		columns:     productType.Columns(),
		table:       t,
		view:        results.View{Category: category},
	}
	rt.table.SetColumns(rt.tableColumns())
	return rt
}

// Category returns the category the table shows.
func (r ResultTable) Category() model.Category {
	return r.view.Category
}

// SetView replaces the rows. The cursor is kept when it still points at a row.
func (r *ResultTable) SetView(view results.View) {
	r.view = view
	r.table.SetColumns(r.tableColumns())

	rows := make([]table.Row, len(view.Rows))
	for i, row := range view.Rows {
		cells := make(table.Row, len(r.columns))
		for j, col := range r.columns {
			cells[j] = cli.FormatCell(col, row.Get(col.Field))
		}
		rows[i] = cells
	}
	r.table.SetRows(rows)

	if r.table.Cursor() >= len(rows) {
		r.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Counts returns the shown and total row counts.
func (r ResultTable) Counts() results.Counts {
	return r.view.Counts
}

// Focus highlights the selected row.
func (r *ResultTable) Focus() {
	r.focused = true
	r.table.Focus()
	r.table.SetColumns(r.tableColumns())
}

// Blur removes the row highlight.
func (r *ResultTable) Blur() {
	r.focused = false
	r.table.Blur()
	r.table.SetColumns(r.tableColumns())
}

// MoveColumn moves the header selection by delta, wrapping around.
func (r *ResultTable) MoveColumn(delta int) {
	n := len(r.columns)
	r.column = ((r.column+delta)%n + n) % n
	r.table.SetColumns(r.tableColumns())
}

// SelectedColumn returns the column the sort key acts on.
func (r ResultTable) SelectedColumn() model.Column {
	return r.columns[r.column]
}

// MoveUp moves the row cursor up.
func (r *ResultTable) MoveUp(n int) {
	r.table.MoveUp(n)
}

// MoveDown moves the row cursor down.
func (r *ResultTable) MoveDown(n int) {
	r.table.MoveDown(n)
}

// GotoTop moves the row cursor to the first row.
func (r *ResultTable) GotoTop() {
	r.table.GotoTop()
}

// GotoBottom moves the row cursor to the last row.
func (r *ResultTable) GotoBottom() {
	r.table.GotoBottom()
}

// SelectedRow returns the row under the cursor.
func (r ResultTable) SelectedRow() (model.Row, bool) {
	i := r.table.Cursor()
	if i < 0 || i >= len(r.view.Rows) {
		return nil, false
	}
	return r.view.Rows[i], true
}

// SelectedTerm returns the identifying term of the row under the cursor.
func (r ResultTable) SelectedTerm() (string, bool) {
	row, ok := r.SelectedRow()
	if !ok {
		return "", false
	}
	term := row.Get(r.productType.TermField()).Text()
	return term, term != ""
}

// Resize fits the table into the given box.
func (r *ResultTable) Resize(width, height int) {
	r.table.SetWidth(width)
	r.table.SetHeight(max(height, 3))
}

// Title returns the table heading with its counts.
func (r ResultTable) Title() string {
	return fmt.Sprintf("%s (%s)", r.view.Category.Title(), cli.FormatCounts(r.view.Counts))
}

// View renders the table.
func (r ResultTable) View() string {
	heading := lipgloss.NewStyle().
		Bold(true).
		Foreground(r.theme.CategoryColor(r.view.Category.IsPositive())).
		Render(r.Title())

	body := r.table.View()
	if len(r.view.Rows) == 0 {
		body = lipgloss.NewStyle().Foreground(r.theme.Muted).Render("No keywords in this category")
	}
	return lipgloss.JoinVertical(lipgloss.Left, heading, body)
}

func (r ResultTable) tableColumns() []table.Column {
	cols := make([]table.Column, len(r.columns))
	for i, col := range r.columns {
		title := cli.HeaderTitle(col, r.view.Sort)
		if r.focused && i == r.column {
			title = "[" + title + "]"
		}
		cols[i] = table.Column{Title: title, Width: max(col.Width, lipgloss.Width(title))}
	}
	return cols
}
