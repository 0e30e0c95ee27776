package api

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sideko-inc/sideko/internal/appcontext"
	"github.com/sideko-inc/sideko/internal/cmd/globals"
	"github.com/sideko-inc/sideko/internal/cmd/output"
	"github.com/sideko-inc/sideko/internal/cmd/table"
	"github.com/sideko-inc/sideko/internal/validation"
	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/sideko"
)

type lintFlags struct {
	spec       string
	name       string
	version    string
	errorsOnly bool
	save       bool
}

var lintCSVHeader = []string{
	"category", "severity", "message", "path",
	"start_line", "start_column", "end_line", "end_column",
}

func newLintCommand(app appcontext.Interface) *cobra.Command {
	flags := &lintFlags{}
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Lint a local OpenAPI document or a stored API version",
		Long: `Lint runs the Sideko OpenAPI linter. Pass --spec to lint a local file,
or --name and --version to lint a version already uploaded to Sideko.

The command fails when the linter reports any errors.`,
		Example: `  sideko api lint --spec ./openapi.yaml
  sideko api lint --name my-api --version latest --errors
  sideko api lint --spec ./openapi.yaml --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLint(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.spec, "spec", "", "path to a local OpenAPI document to lint")
	cmd.Flags().StringVar(&flags.name, "name", "", "api name or id, e.g. my-api")
	cmd.Flags().StringVar(&flags.version, "version", "latest", "api version, e.g. v1 or latest")
	cmd.Flags().BoolVar(&flags.errorsOnly, "errors", false, "show errors only")
	cmd.Flags().BoolVar(&flags.save, "save", false, "save the results as a CSV file")
	globals.AddDisplayFlags(cmd)
	return cmd
}

func runLint(cmd *cobra.Command, app appcontext.Interface, flags *lintFlags) error {
	format, err := globals.ParseDisplay(cmd).Format()
	if err != nil {
		return err
	}

	req := sideko.LintRequest{}
	switch {
	case flags.spec != "":
		if err := validation.OpenAPIFile(flags.spec); err != nil {
			return err
		}
		req.OpenAPIPath = flags.spec
	case flags.name != "" && flags.version != "":
		req.APIName = flags.name
		req.APIVersion = flags.version
	default:
		return errors.NewGeneralError("you must either provide --spec <PATH> or --name <NAME> --version <VERSION>")
	}

	client, err := app.Client()
	if err != nil {
		return err
	}
	report, err := client.Lint(cmd.Context(), req)
	if err != nil {
		return err
	}
	if flags.errorsOnly {
		report.Results = onlyErrors(report.Results)
	}

	filename := flags.name + "-" + flags.version + "-openapi"
	if flags.spec != "" {
		filename = filepath.Base(flags.spec)
	}
	err = output.Write(app.Stdout(), format, report, func() any {
		summary := table.LintSummary(filename, report)
		if len(report.Results) == 0 {
			return summary
		}
		return []output.Data{table.LintResults(filename, report.Results), summary}
	})
	if err != nil {
		return err
	}

	if flags.save {
		name := flags.name + "-lint-report"
		if flags.spec != "" {
			name = filepath.Base(flags.spec)
		}
		path := name + ".csv"
		if err := saveLintCSV(path, report.Results); err != nil {
			return err
		}
		app.Logger().Info().Msgf("Lint report saved to: %s", path)
	}

	if report.Summary.Errors > 0 {
		return errors.Generalf("%d linting errors found", report.Summary.Errors)
	}
	return nil
}

func onlyErrors(results []sideko.LintResult) []sideko.LintResult {
	kept := results[:0]
	for _, r := range results {
		if r.Severity == sideko.LintError {
			kept = append(kept, r)
		}
	}
	return kept
}

func saveLintCSV(path string, results []sideko.LintResult) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(lintCSVHeader); err != nil {
		return errors.WrapIO("write", path, err)
	}
	for _, r := range results {
		loc := r.Location
		record := []string{
			r.Category,
			string(r.Severity),
			r.Message,
			loc.Path,
			strconv.FormatInt(loc.StartLine, 10),
			strconv.FormatInt(loc.StartColumn, 10),
			strconv.FormatInt(loc.EndLine, 10),
			strconv.FormatInt(loc.EndColumn, 10),
		}
		if err := w.Write(record); err != nil {
			return errors.WrapIO("write", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return f.Close()
}
