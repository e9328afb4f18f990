package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clickscribe/internal/processing"
	"clickscribe/internal/services"
	"clickscribe/internal/store"
)

func newClosestCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "closest <tutorial-id> <seconds>",
		Short: "Find the transcript segment nearest to a point in the recording",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
			if err != nil {
				return services.Wrap(services.ErrValidation, "closest", "parse time",
					fmt.Sprintf("%q is not a number of seconds", args[1]), nil)
			}
			return ctx.withProcessor(func(proc *processing.Processor, _ *store.Store) error {
				match, err := proc.Closest(cmd.Context(), args[0], seconds)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, match)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%.3fs-%.3fs (%.3fs away): %s\n",
					match.Segment.Start, match.Segment.End, match.DistanceSeconds, match.Segment.Transcript)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
