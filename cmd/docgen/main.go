package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"docgen/adapters/preview"
	"docgen/app"
	"docgen/internal"
	"docgen/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docgen",
		Short: "Document-generation pipeline: workbook extraction, field mapping, template rendering",
	}

	rootCmd.AddCommand(
		newSummaryCmd(),
		newRenderCmd(),
		newBatchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newPipeline() (*app.PipelineService, *internal.Logger, error) {
	cfg := config.Load()
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	dict, err := cfg.Dictionary()
	if err != nil {
		return nil, nil, err
	}
	return app.NewPipelineWithDictionary(dict), logger, nil
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [workbook.xlsx]",
		Short: "Scan and map a workbook, printing the canonical model summary as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, logger, err := newPipeline()
			if err != nil {
				return err
			}

			model, warnings, err := pipeline.MapWorkbook(args[0])
			if err != nil {
				return err
			}
			for _, warning := range warnings {
				logger.Warn("%s", warning)
			}

			out, err := json.MarshalIndent(app.BuildSummary(model), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func newRenderCmd() *cobra.Command {
	var outFile string
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "render [workbook.xlsx] [template-file]",
		Short: "Render a template against a workbook's canonical model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, logger, err := newPipeline()
			if err != nil {
				return err
			}

			templateText, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read template: %w", err)
			}

			result, err := pipeline.Generate(args[0], string(templateText))
			if err != nil {
				return err
			}
			for _, warning := range result.Warnings {
				logger.Warn("%s", warning)
			}
			for _, ref := range result.Unresolved {
				logger.Warn("unresolved reference %s (offset %d)", ref.Path, ref.Location)
			}

			output := []byte(result.RenderedText)
			if asHTML {
				output = preview.HTML(result.RenderedText, result.Unresolved)
			}
			if outFile != "" {
				return os.WriteFile(outFile, output, 0o644)
			}
			fmt.Print(string(output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the artifact to a file instead of stdout")
	cmd.Flags().BoolVar(&asHTML, "html", false, "emit an HTML preview with a warning banner for unresolved references")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var outDir string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "batch [workbook.xlsx] [template-files...]",
		Short: "Map a workbook once and render many templates concurrently",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, _, err := newPipeline()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = config.Load().OutputDir
			}

			jobs := make([]app.TemplateJob, 0, len(args)-1)
			for _, path := range args[1:] {
				text, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read template %s: %w", path, err)
				}
				jobs = append(jobs, app.TemplateJob{Name: path, Text: string(text)})
			}

			ctx := context.Background()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			artifacts, err := app.NewBatchService(pipeline, outDir).Run(ctx, args[0], jobs)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(artifacts, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", "", "artifact output directory (default from DOCGEN_OUTPUT_DIR)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "caller-level timeout for the whole batch")
	return cmd
}
