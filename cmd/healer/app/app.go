// Package app wires configuration, logging, and the cobra command
// tree for the healer CLI.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmspanish/healer/internal/pipeline"
	"github.com/mmspanish/healer/pkg/logging"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	config, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	root := NewRootCommand(config)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree.
func NewRootCommand(config *Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "healer",
		Short: "Heal merge conflicts and rebuild canonical Spanish datasets",
		Long: "healer scans a content tree for vocabulary entries and grammar lessons,\n" +
			"repairs embedded version-control conflict markers, merges duplicate\n" +
			"records, and writes canonical datasets plus an audit report.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetDefault(NewLogger(config))
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&config.ContentDir, "content", config.ContentDir, "content tree to scan")
	flags.StringVar(&config.BuildDir, "build", config.BuildDir, "output directory for build artifacts")
	flags.StringVar(&config.Format, "format", config.Format, "canonical output format (json, yaml, both)")
	flags.BoolVar(&config.Strict, "strict", config.Strict, "fail on schema issues or unknown levels")
	flags.BoolVarP(&config.Verbose, "verbose", "v", config.Verbose, "verbose output (debug logging)")
	flags.BoolVarP(&config.Quiet, "quiet", "q", config.Quiet, "quiet output (warnings only)")
	flags.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level (trace, debug, info, warn, error)")

	root.AddCommand(newRebuildCommand(config))
	root.AddCommand(newCheckCommand(config))

	// Bare invocation rebuilds, matching the historical CLI.
	root.RunE = newRebuildCommand(config).RunE

	return root
}

// newRebuildCommand runs the full pipeline and writes artifacts.
func newRebuildCommand(config *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild canonical datasets from the content tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, config, false)
		},
	}
}

// newCheckCommand runs the full pipeline without writing anything.
func newCheckCommand(config *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Scan and validate without writing outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, config, true)
		},
	}
}

func runPipeline(cmd *cobra.Command, config *Config, check bool) error {
	summary, err := pipeline.Run(cmd.Context(), pipeline.Options{
		ContentDir: config.ContentDir,
		BuildDir:   config.BuildDir,
		Format:     config.Format,
		Check:      check,
		Strict:     config.Strict,
	})
	if summary != nil {
		printSummary(cmd, summary)
	}
	return err
}

// printSummary renders the human-facing run summary on stdout.
func printSummary(cmd *cobra.Command, summary *pipeline.Summary) {
	aud := summary.Audit
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🔍 Scanned %d files\n", aud.TotalFiles)
	fmt.Fprintf(out, "⚔️  Repaired %d conflict blocks\n", aud.ConflictBlocks)
	fmt.Fprintf(out, "📚  %d vocab | %d lessons\n", aud.VocabCount, aud.LessonCount)
	fmt.Fprintf(out, "✅  Merged %d duplicate clusters\n", aud.DuplicateClusters)
	fmt.Fprintf(out, "⚠️  %d items level=UNSET\n", len(aud.LevelUnset))
	fmt.Fprintf(out, "🚫  %d rejects written\n", aud.Rejects)
	if summary.Wrote {
		fmt.Fprintln(out, "✨ Written: build/canonical/*")
	}
}
