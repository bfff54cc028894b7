package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/results"
)

// FormatCell renders one value for a column. Null renders as "-".
func FormatCell(col model.Column, v model.Value) string {
	if v.IsNull() {
		return "-"
	}
	f, ok := v.Float()
	if !ok {
		return v.Text()
	}
	switch col.Field {
	case model.FieldACOS:
		return strconv.FormatFloat(f, 'f', 2, 64) + "%"
	case model.FieldSales, model.FieldSpend, model.FieldTotalAdvertiserCost:
		return strconv.FormatFloat(f, 'f', 2, 64)
	}
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// FormatCounts renders the "showing N of M" line of a table.
func FormatCounts(c results.Counts) string {
	return fmt.Sprintf("Showing %d of %d", c.Shown, c.Total)
}

// HeaderTitle returns a column title with the sort arrow when the column is
// the active sort of the view.
func HeaderTitle(col model.Column, sort *results.SortSpec) string {
	if sort != nil && sort.Field == col.Field {
		return col.Title + " " + sort.Direction.Arrow()
	}
	return col.Title
}

// RenderView renders one category table with its heading and counts.
func RenderView(productType model.ProductType, view results.View) string {
	columns := productType.Columns()

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = HeaderTitle(col, view.Sort)
	}

	rows := make([][]string, len(view.Rows))
	for i, row := range view.Rows {
		cells := make([]string, len(columns))
		for j, col := range columns {
			cells[j] = FormatCell(col, row.Get(col.Field))
		}
		rows[i] = cells
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(TableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if columns[col].Numeric {
				return TableCellStyle.Align(lipgloss.Right)
			}
			return TableCellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	color := NegativeColor
	if view.Category.IsPositive() {
		color = PositiveColor
	}
	heading := lipgloss.NewStyle().Bold(true).Foreground(color).Render(view.Category.Title())

	return lipgloss.JoinVertical(lipgloss.Left,
		heading,
		t.String(),
		SubtleStyle.Render(FormatCounts(view.Counts)),
	)
}

// RenderViews renders every table of a product type, separated by blank lines.
func RenderViews(productType model.ProductType, views []results.View) string {
	parts := make([]string, 0, len(views)+1)
	parts = append(parts, FormatTitle(productType.Label()))
	for _, v := range views {
		parts = append(parts, RenderView(productType, v))
	}
	return strings.Join(parts, "\n\n") + "\n"
}
