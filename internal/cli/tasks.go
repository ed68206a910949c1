package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"producer/internal/clock"
	"producer/internal/storage"
	"producer/internal/tasks"
)

func newTasksCmd(configPath *string) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage the daily task lists",
	}
	cmd.PersistentFlags().StringVar(&date, "date", "", "day to work on, YYYY-MM-DD (default today)")

	resolveDate := func(s *tasks.Store) (string, error) {
		if date == "" {
			return s.Today(), nil
		}
		if _, err := clock.ParseDate(date); err != nil {
			return "", fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
		}
		return date, nil
	}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openFromFlag(cmd, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if all {
				snap, err := a.tasks.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				dates := make([]string, 0, len(snap))
				for d := range snap {
					dates = append(dates, d)
				}
				sort.Sort(sort.Reverse(sort.StringSlice(dates)))
				for _, d := range dates {
					printDay(out, d, snap[d])
				}
				return nil
			}

			day, err := resolveDate(a.tasks)
			if err != nil {
				return err
			}
			list, err := a.tasks.Tasks(cmd.Context(), day)
			if err != nil {
				return err
			}
			printDay(out, day, list)
			return nil
		},
	}
	list.Flags().BoolVar(&all, "all", false, "list every stored day")

	add := &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openFromFlag(cmd, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			day, err := resolveDate(a.tasks)
			if err != nil {
				return err
			}
			task, ok, err := a.tasks.AddTask(cmd.Context(), day, strings.Join(args, " "))
			if err != nil && !storage.IsPersistenceError(err) {
				return err
			}
			if !ok {
				return fmt.Errorf("task text is empty")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", task.ID)
			return err
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task done or not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openFromFlag(cmd, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			day, err := resolveDate(a.tasks)
			if err != nil {
				return err
			}
			res, err := a.tasks.ToggleTask(cmd.Context(), day, tasks.ID(args[0]))
			if err != nil && !storage.IsPersistenceError(err) {
				return err
			}
			switch {
			case !res.Found:
				fmt.Fprintf(cmd.OutOrStdout(), "no task %s on %s\n", args[0], day)
			case res.Celebrate:
				fmt.Fprintf(cmd.OutOrStdout(), "done: %s. Nice work!\n", res.Task.Text)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "not done: %s\n", res.Task.Text)
			}
			return err
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openFromFlag(cmd, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			day, err := resolveDate(a.tasks)
			if err != nil {
				return err
			}
			found, err := a.tasks.DeleteTask(cmd.Context(), day, tasks.ID(args[0]))
			if err != nil && !storage.IsPersistenceError(err) {
				return err
			}
			if found {
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "no task %s on %s\n", args[0], day)
			}
			return err
		},
	}

	week := &cobra.Command{
		Use:   "week",
		Short: "Show completed/total counts for the last 7 days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openFromFlag(cmd, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			dates := a.tasks.RecentDates(7)
			counts, err := a.tasks.CountsFor(cmd.Context(), dates)
			if err != nil {
				return err
			}
			for _, d := range dates {
				c := counts[d]
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %d/%d completed\n", d, c.Completed, c.Total)
			}
			return nil
		},
	}

	cmd.AddCommand(list, add, toggle, del, week)
	return cmd
}

func printDay(w io.Writer, date string, list []tasks.Task) {
	c := tasks.Counts{Total: len(list)}
	for _, t := range list {
		if t.Completed {
			c.Completed++
		}
	}
	fmt.Fprintf(w, "%s  %d/%d tasks completed\n", date, c.Completed, c.Total)
	if len(list) == 0 {
		fmt.Fprintln(w, "  No tasks for this day.")
		return
	}
	for _, t := range list {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("  %s %s  (%s)", mark, t.Text, t.ID)
		if t.MovedFrom != "" {
			line += "  moved from " + t.MovedFrom
		}
		fmt.Fprintln(w, line)
	}
}
