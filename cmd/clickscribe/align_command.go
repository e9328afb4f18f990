package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"clickscribe/internal/processing"
	"clickscribe/internal/store"
)

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var fallback bool
	var pending bool

	cmd := &cobra.Command{
		Use:   "align [tutorial-id...]",
		Short: "Attach transcript text to each captured step",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pending == (len(args) > 0) {
				return errors.New("pass tutorial ids or --pending, not both")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if fallback {
				cfg.Alignment.ClosestFallback = true
			}

			return ctx.withProcessor(func(proc *processing.Processor, _ *store.Store) error {
				var (
					results []*processing.Result
					runErr  error
				)
				if pending {
					results, runErr = proc.ProcessStatus(cmd.Context(), store.StatusPending)
				} else {
					for _, id := range args {
						res, err := proc.Process(cmd.Context(), id)
						if err != nil {
							runErr = errors.Join(runErr, fmt.Errorf("%s: %w", id, err))
							continue
						}
						results = append(results, res)
					}
				}

				if asJSON {
					if results == nil {
						results = []*processing.Result{}
					}
					if err := writeJSON(cmd, results); err != nil {
						return err
					}
					return runErr
				}

				out := cmd.OutOrStdout()
				for _, res := range results {
					fmt.Fprintf(out, "Aligned %s: %d steps, %d segments, %d fallback\n",
						res.TutorialID, len(res.Steps), res.SegmentCount, res.FallbackCount)
					if res.Reordered {
						fmt.Fprintln(out, "Steps were reordered by timestamp")
					} else if res.Unsorted {
						fmt.Fprintln(out, "Warning: steps are not in timestamp order")
					}
					fmt.Fprintln(out, renderResultTable(res))
				}
				if len(results) == 0 && runErr == nil {
					fmt.Fprintln(out, "Nothing to align")
				}
				return runErr
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&fallback, "fallback", false, "Fill silent steps from the closest transcript segment")
	cmd.Flags().BoolVar(&pending, "pending", false, "Align every pending tutorial")
	return cmd
}

func renderResultTable(res *processing.Result) string {
	rows := make([][]string, 0, len(res.Steps))
	for i, step := range res.Steps {
		text := orDash(truncate(step.TextContent, 60))
		if step.Fallback {
			text += " (closest)"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			formatMillis(step.TimestampStart),
			formatEnd(step.TimestampEnd),
			text,
		})
	}
	return renderTable(
		[]string{"#", "Start", "End", "Narration"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
	)
}
