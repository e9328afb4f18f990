package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"clickscribe/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var tutorialID string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print recent log lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Paths.LogDir == "" {
				return errors.New("logging to a file is disabled (paths.log_dir is empty)")
			}
			out, err := logs.Tail(filepath.Join(cfg.Paths.LogDir, logs.FileName), logs.TailOptions{
				Limit:    lines,
				Contains: tutorialID,
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, line := range out {
				fmt.Fprintln(w, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show (0 for all)")
	cmd.Flags().StringVarP(&tutorialID, "tutorial", "t", "", "Only show lines for this tutorial id")
	return cmd
}
