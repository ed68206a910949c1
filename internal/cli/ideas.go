package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"producer/internal/ideas"
	"producer/internal/storage"
)

func newIdeasCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ideas",
		Short: "Manage ideas and goals",
	}

	var filter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List ideas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openFromFlag(cmd, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			name := filter
			if name == "" {
				name = a.cfg.DefaultFilter
			}
			f, err := ideas.ParseFilter(name)
			if err != nil {
				return err
			}
			list, err := a.ideas.FilterBy(cmd.Context(), f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No ideas.")
				return nil
			}
			for _, i := range list {
				mark := "( )"
				if i.Status == ideas.StatusCompleted {
					mark = "(x)"
				}
				fmt.Fprintf(out, "%s %-6s %s  (%d)\n", mark, i.Priority, i.Text, i.ID)
			}
			return nil
		},
	}
	list.Flags().StringVar(&filter, "filter", "", "all, active or completed (default from config)")

	add := &cobra.Command{
		Use:   "add <text>...",
		Short: "Add an idea",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openFromFlag(cmd, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			idea, ok, err := a.ideas.AddIdea(cmd.Context(), strings.Join(args, " "))
			if err != nil && !storage.IsPersistenceError(err) {
				return err
			}
			if !ok {
				return fmt.Errorf("idea text is empty")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d\n", idea.ID)
			return err
		},
	}

	byID := func(use, short string, run func(a *app, cmd *cobra.Command, id int64) (string, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid idea id %q", args[0])
				}
				a, err := openFromFlag(cmd, *configPath)
				if err != nil {
					return err
				}
				defer a.Close()

				msg, err := run(a, cmd, id)
				if err != nil && !storage.IsPersistenceError(err) {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return err
			},
		}
	}

	toggle := byID("toggle", "Switch an idea between active and completed", func(a *app, cmd *cobra.Command, id int64) (string, error) {
		idea, ok, err := a.ideas.ToggleStatus(cmd.Context(), id)
		if !ok {
			return fmt.Sprintf("no idea %d", id), err
		}
		return fmt.Sprintf("%s: %s", idea.Text, idea.Status), err
	})
	cycle := byID("cycle", "Advance an idea's priority (low, medium, high)", func(a *app, cmd *cobra.Command, id int64) (string, error) {
		idea, ok, err := a.ideas.CyclePriority(cmd.Context(), id)
		if !ok {
			return fmt.Sprintf("no idea %d", id), err
		}
		return fmt.Sprintf("%s: %s priority", idea.Text, idea.Priority), err
	})
	del := byID("delete", "Delete an idea", func(a *app, cmd *cobra.Command, id int64) (string, error) {
		found, err := a.ideas.DeleteIdea(cmd.Context(), id)
		if !found {
			return fmt.Sprintf("no idea %d", id), err
		}
		return fmt.Sprintf("deleted %d", id), err
	})

	cmd.AddCommand(list, add, toggle, cycle, del)
	return cmd
}
