package cli

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
	"github.com/spf13/cobra"

	"github.com/roach88/itf"
)

//go:embed schema.cue
var traceSchema string

// ValidationIssue is one problem found in a trace file.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"` // decode path or CUE position
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <trace.json>",
		Short: "Validate a trace file",
		Long: `Check a trace file in two passes: the envelope structure against the
ITF schema (with source positions), then a full decode that enforces
tag payloads, duplicate detection and bigint literals.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("reading %s", path), err)
	}

	var issues []ValidationIssue
	issues = append(issues, validateSchema(path, data)...)

	// Full decode regardless of schema findings: the two passes catch
	// disjoint problems.
	if _, err := itf.DecodeTrace[*itf.Record](data); err != nil {
		code, epath, message := decodeErrorParts(err)
		issues = append(issues, ValidationIssue{Code: code, Message: message, Path: epath})
	}

	result := ValidationResult{Valid: len(issues) == 0, Issues: issues}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else if result.Valid {
		if err := formatter.Success(fmt.Sprintf("%s: valid ITF trace", path)); err != nil {
			return err
		}
	} else {
		for _, issue := range issues {
			if err := formatter.Error(issue.Code, issue.Message, issue.Path); err != nil {
				return err
			}
		}
	}

	if !result.Valid {
		return WrapExitError(ExitFailure, fmt.Sprintf("%s: %d issue(s)", path, len(issues)), nil)
	}
	return nil
}

// validateSchema unifies the raw trace with the embedded CUE schema.
func validateSchema(path string, data []byte) []ValidationIssue {
	ctx := cuecontext.New()

	schema := ctx.CompileString(traceSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return []ValidationIssue{{Code: "SCHEMA_ERROR", Message: err.Error()}}
	}
	traceDef := schema.LookupPath(cue.ParsePath("#Trace"))
	if err := traceDef.Err(); err != nil {
		return []ValidationIssue{{Code: "SCHEMA_ERROR", Message: err.Error()}}
	}

	expr, err := cuejson.Extract(path, data)
	if err != nil {
		return []ValidationIssue{{Code: string(itf.CodeMalformedJSON), Message: err.Error()}}
	}
	doc := ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return []ValidationIssue{{Code: string(itf.CodeMalformedJSON), Message: err.Error()}}
	}

	unified := traceDef.Unify(doc)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		var issues []ValidationIssue
		for _, e := range cueerrors.Errors(err) {
			issue := ValidationIssue{Code: "SCHEMA_VIOLATION", Message: e.Error()}
			if pos := e.Position(); pos.IsValid() {
				issue.Path = fmt.Sprintf("%s:%d:%d", pos.Filename(), pos.Line(), pos.Column())
			}
			issues = append(issues, issue)
		}
		return issues
	}
	return nil
}
