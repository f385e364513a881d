package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ArchiveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List archived traces",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the trace archive")
	return cmd
}

func runList(opts *ArchiveOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	traces, err := st.ListTraces(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "listing traces", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(traces)
	}
	if len(traces) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "archive is empty")
		return nil
	}
	for _, t := range traces {
		loop := ""
		if t.LoopIndex != nil {
			loop = fmt.Sprintf("  loop=%d", *t.LoopIndex)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %d states  vars=[%s]%s\n",
			t.ID, t.CreatedAt, t.StateCount, strings.Join(t.Vars, ","), loop)
	}
	return nil
}
