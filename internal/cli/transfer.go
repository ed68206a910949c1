package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"producer/internal/storage"
)

func newExportCmd(configPath *string) *cobra.Command {
	var (
		dir    string
		stdout bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Back up all tasks as JSON",
		Long: `Writes every task list to producer-tasks-<today>.json in the export
directory. The file can be loaded again with "producer import".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openFromFlag(cmd, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if stdout {
				data, err := a.tasks.ExportAll(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), data)
				return nil
			}
			if dir == "" {
				dir = a.cfg.ExportDir
			}
			path, err := a.tasks.ExportToDir(cmd.Context(), dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory to write to (default export_dir from config)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the JSON instead of writing a file")
	return cmd
}

func newImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a JSON backup into the task lists",
		Long: `Reads a file written by "producer export". Each day in the file replaces
the stored list for that day; other days are left alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openFromFlag(cmd, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.tasks.ImportFile(cmd.Context(), args[0])
			if err != nil && !storage.IsPersistenceError(err) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d day(s)\n", n)
			return err
		},
	}
}

func newMaintainCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "maintain",
		Short: "Run the daily cleanup and rollover now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openFromFlag(cmd, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			rep, err := a.tasks.Maintain(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "today %s: pruned %d task(s), removed %d empty day(s), moved %d task(s)\n",
				rep.Today, rep.PrunedTasks, rep.RemovedDates, rep.MovedTasks)
			return nil
		},
	}
}
