package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/sprintpack/internal/graph"
	"github.com/Iron-Ham/sprintpack/internal/schedule"
)

type validateOptions struct {
	json        bool
	inputFormat string
}

// validateReport is the --json output of the validate command.
type validateReport struct {
	File        string             `json:"file"`
	Valid       bool               `json:"valid"`
	Tasks       int                `json:"tasks"`
	Groups      int                `json:"groups"`
	Diagnostics []graph.Diagnostic `json:"diagnostics"`
	Error       string             `json:"error,omitempty"`
}

func newValidateCmd(a *app) *cobra.Command {
	opts := &validateOptions{}

	validateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a task file without scheduling it",
		Long: `Read a task file and build its dependency graph.

Reports unknown dependencies, missing epics, circular dependencies and
duplicate keys as errors, and defaulted effort values and dependencies on
empty epics as warnings. Exits non-zero when the graph cannot be built.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, a, opts, args[0])
		},
	}

	validateCmd.Flags().BoolVar(&opts.json, "json", false, "output the report as JSON")
	validateCmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "input format: json, yaml, toml, csv (default: from file extension)")

	return validateCmd
}

func runValidate(cmd *cobra.Command, a *app, opts *validateOptions, path string) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}

	logger, err := a.logger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Close() }()

	input := inputSource{
		path:   path,
		format: opts.inputFormat,
		opts:   schedule.IntakeOptionsFromConfig(cfg),
	}
	descs, err := input.load()
	if err != nil {
		return err
	}

	planner := schedule.NewPlanner(schedule.OptionsFromConfig(cfg), logger)
	g, diags, buildErr := planner.Check(descs)

	report := validateReport{
		File:        path,
		Valid:       buildErr == nil,
		Diagnostics: diags.All(),
	}
	if report.Diagnostics == nil {
		report.Diagnostics = []graph.Diagnostic{}
	}
	if g != nil {
		report.Tasks = g.Len()
		report.Groups = len(g.Groups())
	}
	if buildErr != nil {
		report.Error = buildErr.Error()
	}

	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printValidateReport(cmd.OutOrStdout(), report)
	}

	return buildErr
}

func printValidateReport(w io.Writer, r validateReport) {
	if r.Valid {
		fmt.Fprintf(w, "%s %s: %d tasks, %d epics\n", okStyle.Render("✓"), r.File, r.Tasks, r.Groups)
	} else {
		fmt.Fprintf(w, "%s %s: invalid\n", errorStyle.Render("✗"), r.File)
	}
	for _, d := range r.Diagnostics {
		fmt.Fprintln(w, warningStyle.Render("  "+d.String()))
	}
}
