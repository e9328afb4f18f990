package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clickscribe/internal/capture"
	"clickscribe/internal/store"
	"clickscribe/internal/transcript"
)

func newStepsCommand(ctx *commandContext) *cobra.Command {
	stepsCmd := &cobra.Command{
		Use:   "steps",
		Short: "Manage captured steps",
	}
	stepsCmd.AddCommand(newStepsImportCommand(ctx))
	return stepsCmd
}

func newStepsImportCommand(ctx *commandContext) *cobra.Command {
	var sortSteps bool

	cmd := &cobra.Command{
		Use:   "import <tutorial-id> <manifest>",
		Short: "Append steps from a capture manifest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := capture.LoadFile(args[1])
			if err != nil {
				return err
			}
			if sortSteps {
				manifest.SortSteps()
			}
			return ctx.withStore(func(st *store.Store) error {
				tutorial, err := loadTutorial(cmd, st, args[0])
				if err != nil {
					return err
				}
				n, err := capture.Import(cmd.Context(), st, tutorial.ID, manifest)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d steps into %s\n", n, tutorial.ID)
				if !manifest.Sorted() {
					fmt.Fprintln(out, "Warning: manifest steps are not in timestamp order (use --sort to reorder)")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&sortSteps, "sort", false, "Order manifest steps by timestamp before importing")
	return cmd
}

func newTranscriptCommand(ctx *commandContext) *cobra.Command {
	transcriptCmd := &cobra.Command{
		Use:   "transcript",
		Short: "Manage tutorial transcripts",
	}
	transcriptCmd.AddCommand(newTranscriptImportCommand(ctx))
	return transcriptCmd
}

func newTranscriptImportCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "import <tutorial-id> <file>",
		Short: "Replace a tutorial's transcript with speech-to-text output",
		Long: "Replace a tutorial's transcript with speech-to-text output.\n\n" +
			"Supported formats: deepgram, whisper, segments, srt, or auto to detect.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			name := formatFlag
			if name == "" {
				name = cfg.Transcription.DefaultFormat
			}
			format, err := transcript.ParseFormat(name)
			if err != nil {
				return err
			}
			result, err := transcript.Load(args[1], transcript.Options{
				Format:        format,
				MinConfidence: cfg.Transcription.MinConfidence,
			})
			if err != nil {
				return err
			}

			return ctx.withStore(func(st *store.Store) error {
				tutorial, err := loadTutorial(cmd, st, args[0])
				if err != nil {
					return err
				}
				if err := st.ReplaceSegments(cmd.Context(), tutorial.ID, string(result.Format), result.Segments); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d segments (%s, %d dropped) into %s\n",
					len(result.Segments), result.Format, result.Dropped, tutorial.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Transcript format (auto, deepgram, whisper, segments, srt)")
	return cmd
}
