package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/itf/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*ArchiveOptions
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{ArchiveOptions: &ArchiveOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:           "export <trace-id>",
		Short:         "Write an archived trace back out as ITF JSON",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the trace archive")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func runExport(opts *ExportOptions, id string, cmd *cobra.Command) error {
	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	body, err := st.GetTraceBody(context.Background(), id)
	if errors.Is(err, store.ErrNotFound) {
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("exporting %s", id), err)
	}
	body = append(body, '\n')

	if opts.Output == "" {
		_, err = cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(opts.Output, body, 0o644); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("writing %s", opts.Output), err)
	}
	return nil
}
