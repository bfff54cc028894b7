package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/search-term-analyzer/internal/cli"
	"github.com/Veraticus/search-term-analyzer/internal/common"
	"github.com/Veraticus/search-term-analyzer/internal/config"
	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/service"
	"github.com/Veraticus/search-term-analyzer/internal/sheets"
)

// newReportWriter is swapped out in tests.
var newReportWriter = func(ctx context.Context, cfg sheets.Config) (service.ReportWriter, error) {
	return sheets.NewWriter(ctx, cfg, slog.Default())
}

func sheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Publish result tables to Google Sheets",
	}

	cmd.AddCommand(sheetsPushCmd())
	cmd.AddCommand(sheetsAuthCmd())

	return cmd
}

func sheetsPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Analyze and write every table to a spreadsheet",
		Long: `Run the analysis and replace one tab per table ("Sponsored Products -
Positive (Non-B0)" and so on) with the derived view: sorted, filtered and
limited exactly as analyze would print it.

Authenticate first with 'sta sheets auth', or set sheets.service_account_path.

Examples:
  sta sheets push --search terms.xlsx --targeting keywords.xlsx --limit 500
  sta sheets push --all-types --search terms.xlsx --targeting keywords.xlsx --spreadsheet-id 1AbC...`,
		RunE: runSheetsPush,
	}

	cmd.Flags().String("type", string(model.ProductTypeProducts), "product types, comma separated (products, brands, display)")
	cmd.Flags().Bool("all-types", false, "analyze every product type")
	cmd.Flags().String("spreadsheet-id", "", "spreadsheet to update (overrides sheets.spreadsheet_id)")
	addRequestFlags(cmd)
	addViewFlags(cmd)

	return cmd
}

func runSheetsPush(cmd *cobra.Command, _ []string) error {
	typeList, _ := cmd.Flags().GetString("type")
	allTypes, _ := cmd.Flags().GetBool("all-types")

	types, err := parseProductTypes(typeList, allTypes)
	if err != nil {
		return err
	}
	view := readViewFlags(cmd)
	if err := view.validate(types); err != nil {
		return err
	}

	cfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("google sheets is not configured (run 'sta sheets auth'): %w", err)
	}
	if id, _ := cmd.Flags().GetString("spreadsheet-id"); id != "" {
		cfg.SpreadsheetID = id
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx, stop := handler.HandleInterrupts(cmd.Context(), "Sheets push")
	defer stop()

	writer, err := newReportWriter(ctx, *cfg)
	if err != nil {
		return err
	}

	sessions, failed := analyzeAll(ctx, cmd, types)
	if handler.WasInterrupted() {
		return nil
	}

	for _, s := range sessions {
		if err := view.apply(s); err != nil {
			return err
		}
		if err := writer.Write(ctx, s.ProductType(), s.Snapshot().Views); err != nil {
			return fmt.Errorf("%s: %w", s.ProductType().Label(), err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s: %s, pushed %d tables",
			s.ProductType().Label(), s.Status(), len(model.Categories))))
	}

	return failed
}

func sheetsAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Print a URL to authenticate with Google in your browser
2. Save the token for future pushes

You'll need to run this once to set up Google Sheets integration.`,
		RunE: runSheetsAuth,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("callback-addr", "", "address of the local OAuth2 callback server")

	return cmd
}

func runSheetsAuth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")

	// Override with flags if provided
	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}

	// Environment variables as fallback
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("%w: OAuth2 credentials not found; set sheets.client_id and sheets.client_secret or pass --client-id and --client-secret", common.ErrMissingConfig)
	}

	tokenFile := config.TokenFile(viper.GetViper())
	callback, _ := cmd.Flags().GetString("callback-addr")

	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	if _, err := sheets.AuthenticateOAuth2Interactive(ctx, sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
		CallbackAddr: callback,
	}); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Authentication successful!"))
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Run 'sta sheets push' to publish results."))
	return nil
}
