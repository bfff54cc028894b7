package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/search-term-analyzer/internal/cli"
)

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the classification service is up",
		Long: `Call the service's health route. Hosted instances sleep when idle, so the
check is retried with backoff (server.ping_retries) while the service wakes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			client, err := newClient(settings)
			if err != nil {
				return err
			}

			msg, err := client.Ping(cmd.Context())
			if err != nil {
				return err
			}
			if msg == "" {
				msg = "Backend running"
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s (%s)", msg, client.BaseURL())))
			return nil
		},
	}
}
