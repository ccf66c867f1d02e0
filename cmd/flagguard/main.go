// Command flagguard is the thin CLI front-end over the flagguard
// analysis pipeline, grounded on the teacher's cmd/dorkly and
// cmd/validator mains: a minimal wiring layer that reads its settings
// from command-line flags, builds the pipeline, prints the report as
// JSON, and exits non-zero on failure or when conflicts were found.
// Reporting/rendering beyond that JSON dump is out of scope (spec §1
// Non-goals).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flagguardhq/flagguard/internal/flagguard"
	"github.com/flagguardhq/flagguard/internal/flagguard/obslog"
	"github.com/flagguardhq/flagguard/internal/flagguard/parsers"
	"github.com/flagguardhq/flagguard/internal/flagguard/pipeline"
	"github.com/flagguardhq/flagguard/internal/flagguard/scanner"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "flagguard",
		Short: "Static analysis for feature-flag configurations",
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(newAnalyzeCmd(&logLevel))
	root.AddCommand(newValidateCmd(&logLevel))
	return root
}

func newAnalyzeCmd(logLevel *string) *cobra.Command {
	var configPath, sourceRoot string
	var maxFiles int
	var exclusionGroups []string
	var required []string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Parse a flag configuration and scan source for conflicts, dead code, and dependency cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := obslog.New(obslog.Options{Level: *logLevel})
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			configContent, err := os.ReadFile(configPath)
			if err != nil {
				return fmt.Errorf("reading config %s: %w", configPath, err)
			}

			analyzer := flagguard.NewAnalyzer(
				log,
				pipeline.ConfigLoader(),
				pipeline.SourceScanner(log, scanner.Options{MaxFiles: maxFiles}),
				pipeline.SolverFactory(log),
			)

			var opts []flagguard.EncodeOption
			for _, group := range exclusionGroups {
				opts = append(opts, flagguard.WithExclusionGroup(strings.Split(group, ",")...))
			}
			if len(required) > 0 {
				opts = append(opts, flagguard.WithRequired(required...))
			}

			report, err := analyzer.Run(context.Background(), configContent, sourceRoot, opts...)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report.Tree()); err != nil {
				return err
			}
			if len(report.Conflicts) > 0 {
				log.Sync() //nolint:errcheck
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a flag configuration file")
	cmd.Flags().StringVar(&sourceRoot, "source", ".", "root directory to scan for flag check sites")
	cmd.Flags().IntVar(&maxFiles, "max-files", 0, "maximum number of files to scan (0 = unlimited)")
	cmd.Flags().StringArrayVar(&exclusionGroups, "exclusion-group", nil,
		"comma-separated flags that are mutually exclusive (repeatable)")
	cmd.Flags().StringArrayVar(&required, "require", nil,
		"flag that must be asserted active=true during analysis (repeatable)")
	cmd.MarkFlagRequired("config") //nolint:errcheck
	return cmd
}

func newValidateCmd(logLevel *string) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a flag configuration file without scanning source",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(configPath)
			if err != nil {
				return fmt.Errorf("reading config %s: %w", configPath, err)
			}
			fs, err := parsers.ParseAuto(content)
			if err != nil {
				return err
			}
			fmt.Printf("ok: %d flags declared\n", fs.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a flag configuration file")
	cmd.MarkFlagRequired("config") //nolint:errcheck
	return cmd
}
