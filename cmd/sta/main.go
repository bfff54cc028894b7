package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/search-term-analyzer/internal/backend"
	"github.com/Veraticus/search-term-analyzer/internal/cli"
	"github.com/Veraticus/search-term-analyzer/internal/common"
	"github.com/Veraticus/search-term-analyzer/internal/config"
)

var (
	cfgFile string
	envFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "sta",
		Short: "📊 Search term analyzer for Amazon advertising reports",
		Long: `sta: a client for the search term classification service.

Upload a search term report and a targeting report, get back the keywords
worth promoting and the ones worth negating, then sort, filter and export
them from the terminal.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/sta/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().String("base-url", "", "classification service URL (default: "+backend.DefaultBaseURL+")")

	// Bind flags to viper
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag(config.KeyLogFile, rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag(config.KeyBaseURL, rootCmd.PersistentFlags().Lookup("base-url"))

	// Add commands
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(downloadCmd())
	rootCmd.AddCommand(browseCmd())
	rootCmd.AddCommand(pingCmd())
	rootCmd.AddCommand(sheetsCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Debug("Received interrupt signal, shutting down")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := config.DefaultDir()
		if err != nil {
			return fmt.Errorf("failed to get config directory: %w", err)
		}

		viper.AddConfigPath(dir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	slog.Debug("Configuration loaded", "config_file", viper.ConfigFileUsed())
	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString(config.KeyLogLevel))
	if err != nil {
		return err
	}
	format := viper.GetString(config.KeyLogFormat)

	path := config.ExpandPath(viper.GetString(config.KeyLogFile))
	if path == "" {
		return common.SetupLogger(level, format)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logger, err := common.NewLogger(f, level, format)
	if err != nil {
		_ = f.Close()
		return err
	}
	slog.SetDefault(logger)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sta version %s\n", version)
		},
	}
}
