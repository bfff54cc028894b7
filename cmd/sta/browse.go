package main

import (
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Veraticus/search-term-analyzer/internal/common"
	"github.com/Veraticus/search-term-analyzer/internal/config"
	"github.com/Veraticus/search-term-analyzer/internal/export"
	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/session"
	"github.com/Veraticus/search-term-analyzer/internal/tui"
	"github.com/Veraticus/search-term-analyzer/internal/tui/themes"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Explore results in an interactive terminal UI",
		Long: `Open one tab per product type. Pick the two reports, run the analysis and
browse the result tables: sort by any column, filter positive keywords by
ACOS, grow or shrink each table, copy keywords and save the spreadsheet.

Press ? inside the browser for every key binding.`,
		RunE: runBrowse,
	}

	cmd.Flags().String("type", string(model.ProductTypeProducts), "tab to open (products, brands, display)")
	cmd.Flags().String("theme", "", "color theme (default, catppuccin-mocha)")
	cmd.Flags().String("debug-log", "", "write logs to this file while the browser runs")
	addRequestFlags(cmd)

	return cmd
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	typeName, _ := cmd.Flags().GetString("type")
	themeName, _ := cmd.Flags().GetString("theme")
	debugLog, _ := cmd.Flags().GetString("debug-log")

	pt, err := model.ParseProductType(typeName)
	if err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if themeName == "" {
		themeName = settings.Theme
	}

	logger, closeLog, err := browseLogger(settings, debugLog)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := newClient(settings)
	if err != nil {
		return err
	}

	exporter := export.NewExporter(client, export.WithLogger(logger))
	workspace := session.NewWorkspace(client,
		session.WithExporter(exporter),
		session.WithLogger(logger))
	workspace.SetActive(pt)

	// Request flags prefill the opened tab only.
	s := workspace.Session(pt)
	if search, _ := cmd.Flags().GetString("search"); search != "" {
		s.SetFile(session.SearchFile, config.ExpandPath(search))
	}
	if targeting, _ := cmd.Flags().GetString("targeting"); targeting != "" {
		s.SetFile(session.TargetingFile, config.ExpandPath(targeting))
	}
	if cmd.Flags().Changed("threshold") {
		threshold, _ := cmd.Flags().GetString("threshold")
		s.SetThresholdInput(threshold)
	}

	return tui.Run(cmd.Context(), workspace,
		tui.WithTheme(themes.GetTheme(themeName)),
		tui.WithLogger(logger),
		tui.WithDownloadDir(settings.DownloadDir))
}

// browseLogger keeps log lines off the screen: they go to --debug-log, to
// logging.file, or nowhere.
func browseLogger(settings config.Settings, debugLog string) (*slog.Logger, func(), error) {
	noop := func() {}

	if debugLog == "" {
		if settings.LogFile != "" {
			return slog.Default(), noop, nil
		}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		slog.SetDefault(logger)
		return logger, noop, nil
	}

	f, err := tea.LogToFile(config.ExpandPath(debugLog), "sta")
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open debug log: %w", err)
	}

	logger, err := common.NewLogger(f, slog.LevelDebug, settings.LogFormat)
	if err != nil {
		_ = f.Close()
		return nil, noop, err
	}
	slog.SetDefault(logger)
	return logger, func() { _ = f.Close() }, nil
}
