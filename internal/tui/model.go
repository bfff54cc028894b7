package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/search-term-analyzer/internal/common"
	"github.com/Veraticus/search-term-analyzer/internal/config"
	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/results"
	"github.com/Veraticus/search-term-analyzer/internal/session"
	"github.com/Veraticus/search-term-analyzer/internal/tui/components"
	"github.com/Veraticus/search-term-analyzer/internal/tui/themes"
)

// Model holds the browser state. Analysis state lives in the workspace; the
// model only keeps what is about presentation.
type Model struct {
	ctx        context.Context
	workspace  *session.Workspace
	tables     map[model.ProductType][]components.ResultTable
	focus      map[model.ProductType]int
	inflight   map[model.ProductType]bool
	theme      themes.Theme
	config     Config
	notice     string
	input      textinput.Model
	help       help.Model
	spinner    spinner.Model
	keymap     KeyMap
	limitInput results.LimitInput
	mode       InputMode
	width      int
	height     int
	quitting   bool
}

// New creates the browser model for a workspace.
func New(ctx context.Context, workspace *session.Workspace, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	input := textinput.New()
	input.CharLimit = 512

	m := Model{
		ctx:       ctx,
		workspace: workspace,
		tables:    make(map[model.ProductType][]components.ResultTable, len(model.ProductTypes)),
		focus:     make(map[model.ProductType]int, len(model.ProductTypes)),
		inflight:  make(map[model.ProductType]bool, len(model.ProductTypes)),
		theme:     cfg.Theme,
		config:    cfg,
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		input:     input,
		width:     cfg.Width,
		height:    cfg.Height,
	}

	for _, pt := range model.ProductTypes {
		tables := make([]components.ResultTable, len(model.Categories))
		for i, c := range model.Categories {
			tables[i] = components.NewResultTable(pt, c, cfg.Theme)
		}
		m.tables[pt] = tables
		m.refresh(pt)
	}
	m.resize()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.anyBusy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analyzeDoneMsg:
		delete(m.inflight, msg.productType)
		m.refresh(msg.productType)
		return m, nil

	case exportDoneMsg:
		delete(m.inflight, msg.productType)
		if msg.err != nil && !errors.Is(msg.err, common.ErrBusy) {
			m.config.Logger.Debug("Download failed", "product_type", msg.productType, "error", msg.err)
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.notice = "Copy failed: " + msg.err.Error()
		} else {
			m.notice = fmt.Sprintf("Copied %q", msg.term)
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode != InputNone {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey handles keys while no input has focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.workspace.Active()
	pt := s.ProductType()
	table := m.focused()

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keymap.Products):
		m.switchTab(model.ProductTypeProducts)
	case key.Matches(msg, m.keymap.Brands):
		m.switchTab(model.ProductTypeBrands)
	case key.Matches(msg, m.keymap.Display):
		m.switchTab(model.ProductTypeDisplay)
	case key.Matches(msg, m.keymap.NextTab):
		m.switchTab(m.workspace.Next())
	case key.Matches(msg, m.keymap.PrevTab):
		m.switchTab(m.workspace.Prev())

	case key.Matches(msg, m.keymap.SearchFile):
		search, _ := s.Files()
		return m, m.openInput(InputSearchFile, search)
	case key.Matches(msg, m.keymap.TargetingFile):
		_, targeting := s.Files()
		return m, m.openInput(InputTargetingFile, targeting)
	case key.Matches(msg, m.keymap.Threshold):
		if pt.FixedThreshold() {
			m.notice = pt.Label() + " always uses a threshold of 1"
			return m, nil
		}
		return m, m.openInput(InputThreshold, strconv.Itoa(s.Threshold()))
	case key.Matches(msg, m.keymap.CycleFilter):
		f := s.Filter()
		f.Type = f.Type.Next()
		s.SetFilter(f)
		m.refresh(pt)
	case key.Matches(msg, m.keymap.FilterValue):
		return m, m.openInput(InputFilterValue, s.Filter().Value)

	case key.Matches(msg, m.keymap.Analyze):
		return m, m.startAnalyze(s)
	case key.Matches(msg, m.keymap.Download):
		return m, m.startDownload(s)
	case key.Matches(msg, m.keymap.Copy):
		term, ok := table.SelectedTerm()
		if !ok || m.config.Clipboard == nil {
			return m, nil
		}
		return m, copyTerm(m.config.Clipboard, term)

	case key.Matches(msg, m.keymap.Up):
		table.MoveUp(1)
	case key.Matches(msg, m.keymap.Down):
		table.MoveDown(1)
	case key.Matches(msg, m.keymap.Top):
		table.GotoTop()
	case key.Matches(msg, m.keymap.Bottom):
		table.GotoBottom()
	case key.Matches(msg, m.keymap.PrevTable):
		m.moveTable(-1)
	case key.Matches(msg, m.keymap.NextTable):
		m.moveTable(1)
	case key.Matches(msg, m.keymap.PrevColumn):
		table.MoveColumn(-1)
	case key.Matches(msg, m.keymap.NextColumn):
		table.MoveColumn(1)
	case key.Matches(msg, m.keymap.Sort):
		s.SetSort(table.SelectedColumn().Field, table.Category())
		m.refresh(pt)
	case key.Matches(msg, m.keymap.ClearSort):
		s.ClearSort()
		m.refresh(pt)

	case key.Matches(msg, m.keymap.MoreRows):
		c := table.Category()
		s.SetLimit(c, results.NextPreset(s.Limit(c)))
		m.refresh(pt)
	case key.Matches(msg, m.keymap.FewerRows):
		c := table.Category()
		s.SetLimit(c, results.PrevPreset(s.Limit(c)))
		m.refresh(pt)
	case key.Matches(msg, m.keymap.Limit):
		m.limitInput = results.NewLimitInput(s.Limit(table.Category()))
		return m, m.openInput(InputLimit, m.limitInput.Text())
	}

	return m, nil
}

// updateInput routes keys to the focused field. The ACOS value and the
// limit apply on every keystroke; file paths and the threshold apply on
// enter.
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.workspace.Active()

	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter:
		m.commitInput(s)
		return m, nil
	case tea.KeyEsc:
		if m.mode == InputLimit || m.mode == InputFilterValue {
			m.commitInput(s)
		} else {
			m.closeInput()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	switch m.mode {
	case InputFilterValue:
		f := s.Filter()
		f.Value = m.input.Value()
		s.SetFilter(f)
		m.refresh(s.ProductType())
	case InputLimit:
		if m.limitInput.Change(m.input.Value()) {
			s.SetLimit(m.focused().Category(), m.limitInput.Limit())
			m.refresh(s.ProductType())
		}
	}
	return m, cmd
}

func (m *Model) commitInput(s *session.Session) {
	value := m.input.Value()

	switch m.mode {
	case InputSearchFile:
		s.SetFile(session.SearchFile, config.ExpandPath(strings.TrimSpace(value)))
	case InputTargetingFile:
		s.SetFile(session.TargetingFile, config.ExpandPath(strings.TrimSpace(value)))
	case InputThreshold:
		s.SetThresholdInput(value)
	case InputLimit:
		s.SetLimit(m.focused().Category(), m.limitInput.Blur())
	}

	m.closeInput()
	m.refresh(s.ProductType())
}

func (m *Model) openInput(mode InputMode, value string) tea.Cmd {
	m.mode = mode
	m.notice = ""
	m.input.Prompt = mode.Label() + ": "
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.mode = InputNone
	m.input.Blur()
	m.input.SetValue("")
}

// startAnalyze dispatches an analysis unless the tab is busy. Validation
// failures are recorded without a round trip.
func (m *Model) startAnalyze(s *session.Session) tea.Cmd {
	pt := s.ProductType()
	if m.busy(pt) {
		return nil
	}
	m.notice = ""
	if err := s.Validate(); err != nil {
		return nil
	}
	m.inflight[pt] = true
	return tea.Batch(analyze(m.ctx, s), m.spinner.Tick)
}

// startDownload dispatches a spreadsheet download unless the tab is busy.
func (m *Model) startDownload(s *session.Session) tea.Cmd {
	pt := s.ProductType()
	if m.busy(pt) {
		return nil
	}
	m.notice = ""
	if err := s.Validate(); err != nil {
		return nil
	}
	m.inflight[pt] = true
	return tea.Batch(download(m.ctx, s, m.config.DownloadDir), m.spinner.Tick)
}

func (m Model) busy(pt model.ProductType) bool {
	return m.inflight[pt] || m.workspace.Session(pt).Loading()
}

func (m Model) anyBusy() bool {
	for _, pt := range model.ProductTypes {
		if m.busy(pt) {
			return true
		}
	}
	return false
}

func (m *Model) switchTab(pt model.ProductType) {
	m.workspace.SetActive(pt)
	m.notice = ""
	m.refresh(pt)
}

// focused returns the table of the active tab that has keyboard focus.
func (m Model) focused() *components.ResultTable {
	pt := m.workspace.ActiveType()
	return &m.tables[pt][m.focus[pt]]
}

func (m *Model) moveTable(delta int) {
	pt := m.workspace.ActiveType()
	n := len(model.Categories)
	m.focus[pt] = ((m.focus[pt]+delta)%n + n) % n
	m.refresh(pt)
}

// refresh re-derives every table of a tab from its session.
func (m *Model) refresh(pt model.ProductType) {
	s := m.workspace.Session(pt)
	tables := m.tables[pt]
	for i := range tables {
		tables[i].SetView(s.View(tables[i].Category()))
		if i == m.focus[pt] {
			tables[i].Focus()
		} else {
			tables[i].Blur()
		}
	}
}

// resize fits the tables below the header and form.
func (m *Model) resize() {
	height := m.height - 14
	for _, tables := range m.tables {
		for i := range tables {
			tables[i].Resize(m.width-4, height)
		}
	}
	m.help.Width = m.width
	m.input.Width = max(m.width-30, 20)
}
