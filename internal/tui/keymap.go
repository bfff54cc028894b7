package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Tabs
	Products key.Binding
	Brands   key.Binding
	Display  key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding

	// Inputs
	SearchFile    key.Binding
	TargetingFile key.Binding
	Threshold     key.Binding
	CycleFilter   key.Binding
	FilterValue   key.Binding

	// Actions
	Analyze  key.Binding
	Download key.Binding
	Copy     key.Binding

	// Tables
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	PrevTable  key.Binding
	NextTable  key.Binding
	PrevColumn key.Binding
	NextColumn key.Binding
	Sort       key.Binding
	ClearSort  key.Binding
	MoreRows   key.Binding
	FewerRows  key.Binding
	Limit      key.Binding

	// Application
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Products: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "products"),
		),
		Brands: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "brands"),
		),
		Display: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "display"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("Shift+Tab", "previous tab"),
		),

		SearchFile: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "search term file"),
		),
		TargetingFile: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "targeting file"),
		),
		Threshold: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "order threshold"),
		),
		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle ACOS filter"),
		),
		FilterValue: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "ACOS value"),
		),

		Analyze: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "analyze"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download xlsx"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy term"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("Home/g", "first row"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("End/G", "last row"),
		),
		PrevTable: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous table"),
		),
		NextTable: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next table"),
		),
		PrevColumn: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "previous column"),
		),
		NextColumn: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "next column"),
		),
		Sort: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "sort by column"),
		),
		ClearSort: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear sort"),
		),
		MoreRows: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "show more"),
		),
		FewerRows: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "show fewer"),
		),
		Limit: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "custom limit"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Analyze, k.Download, k.Sort, k.CycleFilter, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Products, k.Brands, k.Display, k.NextTab, k.PrevTab},
		{k.SearchFile, k.TargetingFile, k.Threshold, k.CycleFilter, k.FilterValue},
		{k.Analyze, k.Download, k.Copy},
		{k.Up, k.Down, k.Top, k.Bottom, k.PrevTable, k.NextTable},
		{k.PrevColumn, k.NextColumn, k.Sort, k.ClearSort},
		{k.MoreRows, k.FewerRows, k.Limit, k.Help, k.Quit},
	}
}
