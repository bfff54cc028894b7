// Package export saves analysis output to the local filesystem.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/search-term-analyzer/internal/common"
	"github.com/Veraticus/search-term-analyzer/internal/service"
	"github.com/schollz/progressbar/v3"
)

const downloadFailed = "Failed to download file"

// Exporter saves server-rendered spreadsheets.
type Exporter struct {
	analyzer service.Analyzer
	progress io.Writer
	logger   *slog.Logger
}

var _ service.ArtifactExporter = (*Exporter)(nil)

// Option configures an Exporter.
type Option func(*Exporter)

// WithProgress draws a progress bar on w while downloading.
func WithProgress(w io.Writer) Option {
	return func(e *Exporter) {
		e.progress = w
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// NewExporter creates an Exporter that downloads through analyzer.
func NewExporter(analyzer service.Analyzer, opts ...Option) *Exporter {
	e := &Exporter{
		analyzer: analyzer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export downloads the spreadsheet for req and saves it in dir as
// {productType}_Targeting_Results.xlsx. An existing file of that name is
// replaced only once the download has fully arrived.
func (e *Exporter) Export(ctx context.Context, req service.AnalysisRequest, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	artifact, err := e.analyzer.Download(ctx, req)
	if err != nil {
		return "", downloadError(err)
	}
	defer func() { _ = artifact.Body.Close() }()

	target := filepath.Join(dir, req.ProductType.ArtifactName())

	tmp, err := os.CreateTemp(dir, ".sta-download-*.part")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	var dst io.Writer = tmp
	var bar *progressbar.ProgressBar
	if e.progress != nil {
		bar = e.newProgressBar(artifact.Size, req.ProductType.ArtifactName())
		dst = io.MultiWriter(tmp, bar)
	}

	written, err := io.Copy(dst, artifact.Body)
	if err != nil {
		return "", common.NewUserError(downloadFailed, fmt.Errorf("%w: %w", common.ErrExportFailed, err))
	}
	if bar != nil {
		if err := bar.Finish(); err != nil {
			e.logger.Warn("Failed to finish progress bar", "error", err)
		}
	}

	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to flush download: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", target, err)
	}
	committed = true

	e.logger.Info("Saved export",
		"product_type", req.ProductType,
		"path", target,
		"bytes", written)

	return target, nil
}

func (e *Exporter) newProgressBar(size int64, name string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(e.progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Downloading "+name+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(e.progress); err != nil {
				e.logger.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// downloadError keeps validation and remote failures as they are and gives
// everything else the generic download message.
func downloadError(err error) error {
	if errors.Is(err, common.ErrExportFailed) ||
		errors.Is(err, common.ErrMissingFiles) ||
		errors.Is(err, common.ErrFileNotFound) {
		return err
	}
	return common.NewUserError(downloadFailed, fmt.Errorf("%w: %w", common.ErrExportFailed, err))
}
