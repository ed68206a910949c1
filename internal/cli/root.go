package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"producer/internal/ui"
)

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "producer",
		Short: "Producer - daily tasks and a list of ideas",
		Long: `producer keeps a per-day task list and a freeform list of ideas and goals.

Run without arguments to open the terminal UI. Unfinished tasks move to the
next day you open the app; completed tasks are kept for a week.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(cmd.ErrOrStderr())
			log.SetFlags(0)
			log.SetPrefix("producer: ")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $"+"PRODUCER_CONFIG or the user config dir)")

	root.AddCommand(newTasksCmd(&configPath))
	root.AddCommand(newIdeasCmd(&configPath))
	root.AddCommand(newExportCmd(&configPath))
	root.AddCommand(newImportCmd(&configPath))
	root.AddCommand(newMaintainCmd(&configPath))
	root.AddCommand(newConfigCmd(&configPath))
	root.AddCommand(newDataCmd(&configPath))
	return root
}

func runTUI(ctx context.Context, configPath string) error {
	cfg, path, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "producer")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	}
	log.Printf("starting with config %s (backend %s)", path, cfg.Backend)

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return ui.Run(ctx, a.tasks, a.ideas, cfg)
}
