package cli

import (
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			if err := client.Get(cmd.Context(), "/api/v1/health", &result); err != nil {
				return err
			}

			out := NewOutputTo(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(result)
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show connected, waiting and matched player counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result StatsResult

			if err := client.Get(cmd.Context(), "/api/v1/stats", &result); err != nil {
				return err
			}

			out := NewOutputTo(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(result)
			return nil
		},
	}
}
