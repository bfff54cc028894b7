package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/search-term-analyzer/internal/common"
	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/results"
	"github.com/Veraticus/search-term-analyzer/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer implements the ReportWriter interface for Google Sheets. Every
// product type and category gets its own tab.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

var _ service.ReportWriter = (*Writer)(nil)

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newWriterWithService(srv, config, logger), nil
}

func newWriterWithService(srv *sheets.Service, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}
}

// Write replaces the contents of each view's tab with its header and rows.
func (w *Writer) Write(ctx context.Context, productType model.ProductType, views []results.View) error {
	w.logger.Info("starting sheets push",
		"product_type", productType,
		"tables", len(views))

	titles := make([]string, len(views))
	for i, v := range views {
		titles[i] = TabTitle(productType, v.Category)
	}

	spreadsheetID, sheetIDs, err := w.getOrCreateSpreadsheet(ctx, titles)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  max(w.config.RetryAttempts, 1),
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	columns := productType.Columns()
	for i, view := range views {
		title := titles[i]
		values := prepareViewData(columns, view)

		if err := common.WithRetry(ctx, func() error {
			return classify(w.clearSheet(ctx, spreadsheetID, title))
		}, retryOpts); err != nil {
			return fmt.Errorf("failed to clear %s: %w", title, err)
		}

		if err := common.WithRetry(ctx, func() error {
			return classify(w.writeData(ctx, spreadsheetID, title, values))
		}, retryOpts); err != nil {
			return fmt.Errorf("failed to write %s: %w", title, err)
		}

		if w.config.EnableFormatting {
			err := common.WithRetry(ctx, func() error {
				return classify(w.applyFormatting(ctx, spreadsheetID, sheetIDs[title], len(columns)))
			}, retryOpts)
			if err != nil {
				// Formatting is cosmetic; the data is already written.
				w.logger.Warn("failed to apply formatting", "sheet", title, "error", err)
			}
		}

		w.logger.Debug("wrote table", "sheet", title, "rows", len(values)-1)
	}

	w.logger.Info("sheets push completed", "spreadsheet_id", spreadsheetID)
	return nil
}

// classify tags a Sheets API failure for WithRetry by its HTTP status.
// Quota errors back off and permission or range errors stop at once;
// transport failures carry no status and stay retryable.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return common.ClassifyStatus(apiErr.Code, err)
	}
	return err
}

// TabTitle names the tab holding one table of a product type.
func TabTitle(productType model.ProductType, category model.Category) string {
	return fmt.Sprintf("%s - %s", productType.Label(), category.Title())
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := oauthConfig(config.ClientID, config.ClientSecret, "")
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet opens the configured spreadsheet, or creates one,
// and makes sure every title has a tab. It returns the tab ids by title.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context, titles []string) (string, map[string]int64, error) {
	if w.config.SpreadsheetID == "" {
		spreadsheet := &sheets.Spreadsheet{
			Properties: &sheets.SpreadsheetProperties{
				Title:    w.config.SpreadsheetName,
				TimeZone: w.config.TimeZone,
			},
		}
		for _, title := range titles {
			spreadsheet.Sheets = append(spreadsheet.Sheets, &sheets.Sheet{
				Properties: &sheets.SheetProperties{Title: title},
			})
		}

		created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
		if err != nil {
			return "", nil, fmt.Errorf("unable to create spreadsheet: %w", err)
		}

		w.logger.Info("created new spreadsheet",
			"id", created.SpreadsheetId,
			"url", created.SpreadsheetUrl)

		return created.SpreadsheetId, sheetIDsOf(created), nil
	}

	existing, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
	}
	ids := sheetIDsOf(existing)

	var requests []*sheets.Request
	var missing []string
	for _, title := range titles {
		if _, ok := ids[title]; ok {
			continue
		}
		missing = append(missing, title)
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		})
	}
	if len(requests) == 0 {
		return w.config.SpreadsheetID, ids, nil
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(w.config.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("unable to add tabs: %w", err)
	}
	for i, reply := range resp.Replies {
		if reply != nil && reply.AddSheet != nil && reply.AddSheet.Properties != nil && i < len(missing) {
			ids[missing[i]] = reply.AddSheet.Properties.SheetId
		}
	}

	return w.config.SpreadsheetID, ids, nil
}

func sheetIDsOf(s *sheets.Spreadsheet) map[string]int64 {
	ids := make(map[string]int64, len(s.Sheets))
	for _, sh := range s.Sheets {
		if sh.Properties != nil {
			ids[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	return ids
}

// clearSheet clears all data from one tab.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID, title string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, a1(title, "A:Z"), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// prepareViewData lays out one table: a header of column titles, then one
// row per displayed keyword. Null cells are empty.
func prepareViewData(columns []model.Column, view results.View) [][]any {
	values := make([][]any, 0, len(view.Rows)+1)

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col.Title
	}
	values = append(values, header)

	for _, row := range view.Rows {
		cells := make([]any, len(columns))
		for i, col := range columns {
			v := row.Get(col.Field)
			if f, ok := v.Float(); ok {
				cells[i] = f
			} else {
				cells[i] = v.Text()
			}
		}
		values = append(values, cells)
	}

	return values
}

// writeData writes values into a tab in batches.
func (w *Writer) writeData(ctx context.Context, spreadsheetID, title string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))

		valueRange := &sheets.ValueRange{
			Values: values[i:end],
		}

		// RAW keeps keywords such as "=sum" from being read as formulas.
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, a1(title, fmt.Sprintf("A%d", i+1)), valueRange).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}
	}

	return nil
}

// applyFormatting bolds and freezes the header row and fits the columns.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetID int64, columns int) error {
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(columns),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(columns),
				},
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

// a1 builds an A1 range on a named tab.
func a1(title, cells string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'!" + cells
}
