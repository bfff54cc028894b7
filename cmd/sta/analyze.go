package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/search-term-analyzer/internal/cli"
	"github.com/Veraticus/search-term-analyzer/internal/export"
	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/session"
)

// Output formats of the analyze command.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify search terms and print the result tables",
		Long: `Upload a search term report and a targeting report to the classification
service and print the four result tables: positive and negative keywords,
each split into free-text terms and ASINs (B0...).

Examples:
  # Sponsored Products with a threshold of 2 orders
  sta analyze --search terms.xlsx --targeting keywords.xlsx --threshold 2

  # Highest spend first, 50 rows per table
  sta analyze --search terms.xlsx --targeting keywords.xlsx --sort spend --limit 50

  # Positive keywords with ACOS under 30%
  sta analyze --search terms.xlsx --targeting keywords.xlsx --filter less --filter-value 30

  # Every product type at once, as JSON
  sta analyze --all-types --search terms.xlsx --targeting keywords.xlsx --format json

  # One table as CSV
  sta analyze --search terms.xlsx --targeting keywords.xlsx --category neg-b0 --format csv`,
		RunE: runAnalyze,
	}

	cmd.Flags().String("type", string(model.ProductTypeProducts), "product types, comma separated (products, brands, display)")
	cmd.Flags().Bool("all-types", false, "analyze every product type")
	addRequestFlags(cmd)
	addViewFlags(cmd)
	cmd.Flags().String("format", formatTable, "output format (table, json, csv)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	typeList, _ := cmd.Flags().GetString("type")
	allTypes, _ := cmd.Flags().GetBool("all-types")
	format, _ := cmd.Flags().GetString("format")

	types, err := parseProductTypes(typeList, allTypes)
	if err != nil {
		return err
	}

	view := readViewFlags(cmd)
	if err := view.validate(types); err != nil {
		return err
	}

	switch format {
	case formatTable, formatJSON:
	case formatCSV:
		if len(types) != 1 {
			return fmt.Errorf("csv output holds a single table; pass one --type")
		}
	default:
		return fmt.Errorf("invalid format %q (want table, json or csv)", format)
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx, stop := handler.HandleInterrupts(cmd.Context(), "Analysis")
	defer stop()

	sessions, failed := analyzeAll(ctx, cmd, types)
	if handler.WasInterrupted() {
		return nil
	}
	if len(sessions) == 0 {
		return failed
	}

	for _, s := range sessions {
		if err := view.apply(s); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("%s: %s", s.ProductType().Label(), s.Status())))
	}

	if err := writeResults(cmd.OutOrStdout(), format, view, sessions); err != nil {
		return err
	}
	// Types that failed are reported after the ones that succeeded.
	return failed
}

// analyzeAll submits one session per product type concurrently. Each type
// runs to completion on its own: a failure is reported for that type only
// and never cancels the others. It returns the sessions that succeeded, in
// the order given, and the joined failures of the rest.
func analyzeAll(ctx context.Context, cmd *cobra.Command, types []model.ProductType) ([]*session.Session, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	client, err := newClient(settings)
	if err != nil {
		return nil, err
	}

	opts := sessionOptions(cmd)
	sessions := make([]*session.Session, len(types))
	for i, pt := range types {
		sessions[i] = session.New(pt, client, opts...)
	}

	errs := make([]error, len(sessions))
	var g errgroup.Group
	for i, s := range sessions {
		g.Go(func() error {
			if err := s.Submit(ctx); err != nil {
				slog.Debug("Analysis failed", "product_type", s.ProductType(), "error", err)
				errs[i] = fmt.Errorf("%s: %w", s.ProductType().Label(), err)
			}
			return nil
		})
	}
	_ = g.Wait()

	succeeded := make([]*session.Session, 0, len(sessions))
	for i, s := range sessions {
		if errs[i] == nil {
			succeeded = append(succeeded, s)
		}
	}
	return succeeded, errors.Join(errs...)
}

func writeResults(w io.Writer, format string, view viewOptions, sessions []*session.Session) error {
	switch format {
	case formatJSON:
		docs := make([]export.Document, len(sessions))
		for i, s := range sessions {
			docs[i] = export.NewDocument(s.ProductType(), s.Snapshot().Views)
		}
		return export.WriteJSON(w, docs...)

	case formatCSV:
		category, err := model.ParseCategory(view.category)
		if err != nil {
			return err
		}
		s := sessions[0]
		return export.WriteCSV(w, s.ProductType().Columns(), s.View(category))

	default:
		for _, s := range sessions {
			if _, err := io.WriteString(w, cli.RenderViews(s.ProductType(), s.Snapshot().Views)); err != nil {
				return err
			}
		}
		return nil
	}
}
