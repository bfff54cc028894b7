package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/search-term-analyzer/internal/cli"
	"github.com/Veraticus/search-term-analyzer/internal/config"
	"github.com/Veraticus/search-term-analyzer/internal/export"
	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/session"
)

func downloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Save the service's spreadsheet of the analysis",
		Long: `Send both reports to the classification service and save the spreadsheet
it renders as <type>_Targeting_Results.xlsx.

Examples:
  sta download --search terms.xlsx --targeting keywords.xlsx
  sta download --type display --search targets.xlsx --targeting targeting.xlsx --dir ~/Downloads`,
		RunE: runDownload,
	}

	cmd.Flags().String("type", string(model.ProductTypeProducts), "product type (products, brands, display)")
	cmd.Flags().String("dir", "", "directory to save into (default: download.dir)")
	cmd.Flags().Bool("quiet", false, "hide the progress bar")
	addRequestFlags(cmd)

	return cmd
}

func runDownload(cmd *cobra.Command, _ []string) error {
	typeName, _ := cmd.Flags().GetString("type")
	dir, _ := cmd.Flags().GetString("dir")
	quiet, _ := cmd.Flags().GetBool("quiet")

	pt, err := model.ParseProductType(typeName)
	if err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if dir == "" {
		dir = settings.DownloadDir
	}
	client, err := newClient(settings)
	if err != nil {
		return err
	}

	exportOpts := []export.Option{export.WithLogger(slog.Default())}
	if !quiet {
		exportOpts = append(exportOpts, export.WithProgress(cmd.ErrOrStderr()))
	}
	exporter := export.NewExporter(client, exportOpts...)

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx, stop := handler.HandleInterrupts(cmd.Context(), "Download")
	defer stop()

	opts := append(sessionOptions(cmd), session.WithExporter(exporter))
	s := session.New(pt, client, opts...)

	path, err := s.ExportArtifact(ctx, config.ExpandPath(dir))
	if err != nil {
		if handler.WasInterrupted() {
			return nil
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSaved(path))
	return nil
}
