package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/results"
	"github.com/Veraticus/search-term-analyzer/internal/session"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.workspace.Active().Snapshot()

	sections := []string{
		m.renderHeader(),
		m.renderForm(snap),
		m.renderStatus(snap),
	}
	if m.mode != InputNone {
		sections = append(sections, m.input.View())
	}
	sections = append(sections,
		"",
		m.renderTableStrip(snap.ProductType),
		m.renderTable(snap),
		"",
		m.help.View(m.keymap),
	)

	return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderHeader renders the title and the product-type tabs.
func (m Model) renderHeader() string {
	title := m.theme.Title.Render("Search Term Analyzer")

	active := m.workspace.ActiveType()
	tabs := make([]string, 0, len(model.ProductTypes))
	for i, pt := range model.ProductTypes {
		label := fmt.Sprintf("%d %s", i+1, pt.Label())
		if m.busy(pt) {
			label += " " + m.spinner.View()
		}
		if pt == active {
			tabs = append(tabs, m.theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.theme.TabInactive.Render(label))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
	)
}

// renderForm renders the inputs of the active tab.
func (m Model) renderForm(snap session.Snapshot) string {
	pt := snap.ProductType
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)

	file := func(path string) string {
		if path == "" {
			return muted.Render("not selected")
		}
		return m.theme.Normal.Render(path)
	}

	threshold := m.theme.Normal.Render(fmt.Sprintf("%d", snap.Threshold))
	if pt.FixedThreshold() {
		threshold += muted.Render(" (fixed)")
	}

	filter := m.theme.Normal.Render(snap.Filter.Type.Label())
	if snap.Filter.Type != results.FilterNone {
		value := snap.Filter.Value
		if value == "" {
			value = "?"
		}
		filter += m.theme.Normal.Render(" " + value)
		if !snap.Filter.Active() {
			filter += muted.Render(" (inactive)")
		}
	}

	rows := [][2]string{
		{pt.SearchFileLabel(), file(snap.SearchFile)},
		{pt.TargetingFileLabel(), file(snap.TargetingFile)},
		{"Positive order threshold", threshold},
		{"ACOS filter", filter},
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = fmt.Sprintf("%s %s", m.theme.Header.Render(fmt.Sprintf("%-28s", r[0]+":")), r[1])
	}
	return m.theme.BorderedBox.Render(strings.Join(lines, "\n"))
}

// renderStatus renders the loading, error or success line of the tab.
func (m Model) renderStatus(snap session.Snapshot) string {
	switch {
	case m.busy(snap.ProductType):
		return m.theme.StatusPending.Render(m.spinner.View() + " Working...")
	case snap.Error != "":
		return m.theme.StatusError.Render(snap.Error)
	case m.notice != "":
		return m.theme.StatusInfo.Render(m.notice)
	case snap.Status != "":
		return m.theme.StatusSuccess.Render(snap.Status)
	case snap.State == results.StateIdle:
		return m.theme.StatusPending.Render("Select both files and press a to analyze")
	default:
		return ""
	}
}

// renderTableStrip lists the four tables with their counts.
func (m Model) renderTableStrip(pt model.ProductType) string {
	tables := m.tables[pt]
	parts := make([]string, len(tables))
	for i, t := range tables {
		c := t.Counts()
		label := fmt.Sprintf("%s %d/%d", t.Category().Title(), c.Shown, c.Total)
		style := lipgloss.NewStyle().
			Foreground(m.theme.CategoryColor(t.Category().IsPositive())).
			Padding(0, 1)
		if i == m.focus[pt] {
			style = style.Bold(true).Underline(true)
		}
		parts[i] = style.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderTable renders the focused table of the tab.
func (m Model) renderTable(snap session.Snapshot) string {
	if snap.State == results.StateIdle {
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render("No results yet")
	}
	return m.tables[snap.ProductType][m.focus[snap.ProductType]].View()
}
