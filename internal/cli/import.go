package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/itf/internal/store"
)

// ArchiveOptions holds the flags shared by the archive commands.
type ArchiveOptions struct {
	*RootOptions
	Database string
}

// openStore resolves the database path (flag, then config) and opens the
// archive.
func (opts *ArchiveOptions) openStore() (*store.Store, error) {
	path := opts.Database
	if path == "" {
		cfg, err := LoadConfig(opts.Config)
		if err != nil {
			return nil, err
		}
		path = cfg.Database
	}
	if path == "" {
		return nil, WrapExitError(ExitCommandError,
			"no database configured: pass --db or set database in .itf.yaml", nil)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("opening %s", path), err)
	}
	return st, nil
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ArchiveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <trace.json>...",
		Short: "Archive trace files",
		Long: `Decode trace files and store their canonical form in the archive.
Each trace gets a time-ordered id that later commands accept.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the trace archive")
	return cmd
}

// ImportResult reports one imported trace.
type ImportResult struct {
	File   string `json:"file"`
	ID     string `json:"id"`
	States int    `json:"states"`
}

func runImport(opts *ArchiveOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	results := make([]ImportResult, 0, len(paths))
	for _, path := range paths {
		trace, _, err := LoadTrace(path)
		if err != nil {
			return err
		}
		id, err := st.SaveTrace(ctx, trace)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("archiving %s", path), err)
		}
		formatter.VerboseLog("imported %s as %s", path, id)
		results = append(results, ImportResult{File: path, ID: id, States: len(trace.States)})
	}

	if formatter.Format == "json" {
		return formatter.Success(results)
	}
	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%d states)\n", r.ID, r.File, r.States)
	}
	return nil
}
