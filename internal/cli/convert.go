package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/itf"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	Output string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <trace.json>",
		Short: "Re-emit a trace in canonical form",
		Long: `Decode a trace file and re-emit it as canonical ITF JSON: tags
re-wrapped, container order preserved, incidental whitespace dropped.
The output decodes back to an equal trace.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func runConvert(opts *ConvertOptions, path string, cmd *cobra.Command) error {
	trace, _, err := LoadTrace(path)
	if err != nil {
		return err
	}

	out, err := itf.EncodeTrace(trace)
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("re-encoding %s", path), err)
	}
	out = append(out, '\n')

	if opts.Output == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("writing %s", opts.Output), err)
	}
	return nil
}
