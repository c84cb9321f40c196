package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	envFiles   []string
	logLevel   string
}

func buildRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "openqa",
		Short:         "Generate QA sets from documents and evaluate model answers against them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(opts.logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to YAML configuration file")
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "Dotenv files to load")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		buildGenerateCmd(opts),
		buildEvaluateCmd(opts),
		buildRunCmd(opts),
		buildCompareCmd(opts),
		buildServeCmd(opts),
		buildConfigCmd(opts),
		buildVersionCmd(),
	)
	return cmd
}

func setupLogging(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}

func buildGenerateCmd(root *rootOptions) *cobra.Command {
	var (
		docPath string
		outPath string
		upload  bool
		object  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a QA set from a document and write it as JSONL",
		Example: `  openqa generate --pdf paper.pdf --out qa.jsonl
  openqa generate --pdf paper.pdf --out qa.jsonl --upload`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), root, generateOptions{
				docPath: docPath,
				outPath: outPath,
				upload:  upload,
				object:  object,
			})
		},
	}

	cmd.Flags().StringVar(&docPath, "pdf", "", "Source document (.pdf or .txt)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "qa.jsonl", "Output JSONL path")
	cmd.Flags().BoolVar(&upload, "upload", false, "Upload the QA set to the configured MinIO bucket")
	cmd.Flags().StringVar(&object, "object", "", "Object name for --upload (default: base name of --out)")
	_ = cmd.MarkFlagRequired("pdf")

	return cmd
}

func buildEvaluateCmd(root *rootOptions) *cobra.Command {
	var (
		inPath        string
		object        string
		reportPath    string
		rowsPath      string
		skipMalformed bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Answer and score every pair of a QA set",
		Example: `  openqa evaluate --in qa.jsonl --report report.json
  openqa evaluate --object qa.jsonl --skip-malformed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd.Context(), root, evaluateOptions{
				inPath:        inPath,
				object:        object,
				skipMalformed: skipMalformed,
				output:        outputOptions{reportPath: reportPath, rowsPath: rowsPath},
			})
		},
	}

	cmd.Flags().StringVarP(&inPath, "in", "i", "", "QA set JSONL path")
	cmd.Flags().StringVar(&object, "object", "", "Read the QA set from this MinIO object instead of --in")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write the full report as JSON to this path")
	cmd.Flags().StringVar(&rowsPath, "rows", "", "Write report rows as JSONL to this path")
	cmd.Flags().BoolVar(&skipMalformed, "skip-malformed", false, "Skip malformed JSONL lines instead of failing")
	cmd.MarkFlagsOneRequired("in", "object")
	cmd.MarkFlagsMutuallyExclusive("in", "object")

	return cmd
}

func buildRunCmd(root *rootOptions) *cobra.Command {
	var (
		docPath    string
		qaPath     string
		reportPath string
		rowsPath   string
	)

	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Generate a QA set from a document and evaluate it in one go",
		Example: `  openqa run --pdf paper.pdf --report report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), root, runOptions{
				docPath: docPath,
				qaPath:  qaPath,
				output:  outputOptions{reportPath: reportPath, rowsPath: rowsPath},
			})
		},
	}

	cmd.Flags().StringVar(&docPath, "pdf", "", "Source document (.pdf or .txt)")
	cmd.Flags().StringVar(&qaPath, "qa-out", "", "Also keep the generated QA set at this JSONL path")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write the full report as JSON to this path")
	cmd.Flags().StringVar(&rowsPath, "rows", "", "Write report rows as JSONL to this path")
	_ = cmd.MarkFlagRequired("pdf")

	return cmd
}

func buildCompareCmd(root *rootOptions) *cobra.Command {
	var question, answer1, answer2 string

	cmd := &cobra.Command{
		Use:     "compare",
		Short:   "Ask the judge model which of two answers is better",
		Example: `  openqa compare --question "Capital of France?" --a1 Paris --a2 Lyon`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), root, cmd.OutOrStdout(), question, answer1, answer2)
		},
	}

	cmd.Flags().StringVarP(&question, "question", "q", "", "Question both answers respond to")
	cmd.Flags().StringVar(&answer1, "a1", "", "First answer")
	cmd.Flags().StringVar(&answer2, "a2", "", "Second answer")
	_ = cmd.MarkFlagRequired("a1")
	_ = cmd.MarkFlagRequired("a2")

	return cmd
}

func buildServeCmd(root *rootOptions) *cobra.Command {
	var (
		docPath string
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pipeline in the background and serve the live report over HTTP",
		Long: `Run the pipeline for a document in the background and expose its progress:

  GET /health
  GET /api/v1/report
  GET /api/v1/report/rows?offset=&limit=

The server keeps running after the pipeline finishes until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), root, docPath, origins)
		},
	}

	cmd.Flags().StringVar(&docPath, "pdf", "", "Source document (.pdf or .txt)")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "Allowed CORS origins (default: *)")
	_ = cmd.MarkFlagRequired("pdf")

	return cmd
}

func buildConfigCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			return cfg.WriteYAML(cmd.OutOrStdout())
		},
	}
}

func buildVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "openqa %s (%s)\n", version, commit)
		},
	}
}
