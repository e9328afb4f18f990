package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"clickscribe/internal/preflight"
	"clickscribe/internal/store"
	"clickscribe/internal/textutil"
)

type statusReport struct {
	Checks []preflight.Result `json:"checks"`
	Stats  *store.Stats       `json:"stats,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show directory, database, and tutorial status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			report := statusReport{Checks: preflight.RunAll(cmd.Context(), cfg)}
			if !preflight.Failed(report.Checks) {
				if err := ctx.withStore(func(st *store.Store) error {
					stats, err := st.Stats(cmd.Context())
					if err != nil {
						return err
					}
					report.Stats = &stats
					return nil
				}); err != nil {
					return err
				}
			}

			if asJSON {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderSectionHeader("Environment", colorize))
			for _, check := range report.Checks {
				kind := statusOK
				if !check.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
			}
			if report.Stats == nil {
				fmt.Fprintln(out, "Run 'clickscribe config validate' to create missing directories.")
				return nil
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Tutorials", colorize))
			rows := make([][]string, 0, len(store.AllStatuses())+1)
			for _, status := range store.AllStatuses() {
				rows = append(rows, []string{textutil.TitleCase(string(status)), strconv.Itoa(report.Stats.ByStatus[status])})
			}
			rows = append(rows, []string{"Total", strconv.Itoa(report.Stats.Total)})
			fmt.Fprintln(out, renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
