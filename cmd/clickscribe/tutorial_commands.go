package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clickscribe/internal/capture"
	"clickscribe/internal/services"
	"clickscribe/internal/store"
	"clickscribe/internal/textutil"
)

func newTutorialCommand(ctx *commandContext) *cobra.Command {
	tutorialCmd := &cobra.Command{
		Use:   "tutorial",
		Short: "Manage stored tutorials",
	}

	tutorialCmd.AddCommand(newTutorialCreateCommand(ctx))
	tutorialCmd.AddCommand(newTutorialListCommand(ctx))
	tutorialCmd.AddCommand(newTutorialShowCommand(ctx))
	tutorialCmd.AddCommand(newTutorialDeleteCommand(ctx))

	return tutorialCmd
}

func newTutorialCreateCommand(ctx *commandContext) *cobra.Command {
	var manifestPath string
	var sortSteps bool

	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a tutorial, optionally importing steps from a capture manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var title string
			if len(args) == 1 {
				title = args[0]
			}

			var manifest *capture.Manifest
			if strings.TrimSpace(manifestPath) != "" {
				m, err := capture.LoadFile(manifestPath)
				if err != nil {
					return err
				}
				if sortSteps {
					m.SortSteps()
				}
				manifest = m
				if strings.TrimSpace(title) == "" {
					title = m.Title
				}
			}
			if strings.TrimSpace(title) == "" {
				return errors.New("a title is required (pass one or set title in the manifest)")
			}

			return ctx.withStore(func(st *store.Store) error {
				out := cmd.OutOrStdout()
				if manifest == nil {
					tutorial, err := st.CreateTutorial(cmd.Context(), title)
					if err != nil {
						return fmt.Errorf("create tutorial: %w", err)
					}
					fmt.Fprintf(out, "Created tutorial %s (%s)\n", tutorial.ID, tutorial.Title)
					return nil
				}
				tutorial, err := capture.Create(cmd.Context(), st, title, manifest)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Created tutorial %s (%s)\n", tutorial.ID, tutorial.Title)
				fmt.Fprintf(out, "Imported %d steps\n", tutorial.StepCount)
				if !manifest.Sorted() {
					fmt.Fprintln(out, "Warning: manifest steps are not in timestamp order (use --sort to reorder)")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Capture manifest (YAML or JSON) to import steps from")
	cmd.Flags().BoolVar(&sortSteps, "sort", false, "Order manifest steps by timestamp before importing")
	return cmd
}

func newTutorialListCommand(ctx *commandContext) *cobra.Command {
	var statusFlags []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tutorials",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := make([]store.Status, 0, len(statusFlags))
			for _, value := range statusFlags {
				status, ok := store.ParseStatus(strings.ToLower(strings.TrimSpace(value)))
				if !ok {
					return fmt.Errorf("unknown status %q", value)
				}
				statuses = append(statuses, status)
			}

			return ctx.withStore(func(st *store.Store) error {
				tutorials, err := st.ListTutorials(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if asJSON {
					if tutorials == nil {
						tutorials = []*store.Tutorial{}
					}
					return writeJSON(cmd, tutorials)
				}
				out := cmd.OutOrStdout()
				if len(tutorials) == 0 {
					fmt.Fprintln(out, "No tutorials")
					return nil
				}
				rows := make([][]string, 0, len(tutorials))
				for _, t := range tutorials {
					rows = append(rows, []string{
						t.ID,
						truncate(t.Title, 40),
						textutil.TitleCase(string(t.Status)),
						strconv.Itoa(t.StepCount),
						strconv.Itoa(t.SegmentCount),
						formatTimestamp(t.UpdatedAt),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Status", "Steps", "Segments", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&statusFlags, "status", "s", nil, "Filter by status (pending, aligned, failed, review)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

type tutorialView struct {
	Tutorial *store.Tutorial `json:"tutorial"`
	Steps    []store.Step    `json:"steps"`
}

func newTutorialShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <tutorial-id>",
		Short: "Show a tutorial and its aligned steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				tutorial, err := loadTutorial(cmd, st, args[0])
				if err != nil {
					return err
				}
				steps, err := st.ListSteps(cmd.Context(), tutorial.ID)
				if err != nil {
					return err
				}
				if asJSON {
					if steps == nil {
						steps = []store.Step{}
					}
					return writeJSON(cmd, tutorialView{Tutorial: tutorial, Steps: steps})
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintln(out, renderSectionHeader(tutorial.Title, colorize))
				fmt.Fprintf(out, "ID:         %s\n", tutorial.ID)
				fmt.Fprintf(out, "Status:     %s\n", textutil.TitleCase(string(tutorial.Status)))
				if tutorial.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:      %s\n", tutorial.ErrorMessage)
				}
				fmt.Fprintf(out, "Transcript: %s (%d segments)\n", orDash(tutorial.TranscriptSource), tutorial.SegmentCount)
				if tutorial.AlignedAt != nil {
					fmt.Fprintf(out, "Aligned:    %s\n", formatTimestamp(*tutorial.AlignedAt))
				}
				if len(steps) == 0 {
					fmt.Fprintln(out, "No steps")
					return nil
				}
				fmt.Fprintln(out, renderStepTable(steps))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func renderStepTable(steps []store.Step) string {
	rows := make([][]string, 0, len(steps))
	for _, s := range steps {
		rows = append(rows, []string{
			strconv.Itoa(s.Sequence + 1),
			formatMillis(s.TimestampStart),
			formatEnd(s.TimestampEnd),
			orDash(textutil.TitleCase(s.Action)),
			orDash(truncate(s.TextContent, 60)),
			yesNo(s.Fallback),
		})
	}
	return renderTable(
		[]string{"#", "Start", "End", "Action", "Narration", "Fallback"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft, alignLeft},
	)
}

func newTutorialDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tutorial-id>",
		Short: "Delete a tutorial with its steps and transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				removed, err := st.DeleteTutorial(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					return services.Wrap(services.ErrNotFound, "tutorial", "delete",
						fmt.Sprintf("tutorial %s does not exist", args[0]), nil)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted tutorial %s\n", args[0])
				return nil
			})
		},
	}
}

func loadTutorial(cmd *cobra.Command, st *store.Store, id string) (*store.Tutorial, error) {
	tutorial, err := st.GetTutorial(cmd.Context(), strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if tutorial == nil {
		return nil, services.Wrap(services.ErrNotFound, "tutorial", "load",
			fmt.Sprintf("tutorial %s does not exist", id), nil)
	}
	return tutorial, nil
}
