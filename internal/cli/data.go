package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"producer/internal/storage"
)

func newDataCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Inspect the stored blobs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "keys",
		Short: "List stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openFromFlag(cmd, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			inv, err := inventory(a)
			if err != nil {
				return err
			}
			keys, err := inv.Keys()
			if err != nil {
				return err
			}
			db, _ := a.adapter.(*storage.SQLite)
			for _, k := range keys {
				line := k
				if db != nil {
					if at, ok, err := db.UpdatedAt(k); err == nil && ok {
						line += "  " + at.Local().Format(time.DateTime)
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Delete blobs set aside as " + storage.CorruptSuffix,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openFromFlag(cmd, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			inv, err := inventory(a)
			if err != nil {
				return err
			}
			keys, err := inv.Keys()
			if err != nil {
				return err
			}
			removed := 0
			for _, k := range keys {
				if !strings.HasSuffix(k, storage.CorruptSuffix) {
					continue
				}
				if err := inv.Delete(k); err != nil {
					return err
				}
				removed++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d corrupt backup(s)\n", removed)
			return nil
		},
	})
	return cmd
}

func inventory(a *app) (storage.Inventory, error) {
	inv, ok := a.adapter.(storage.Inventory)
	if !ok {
		return nil, fmt.Errorf("backend %s keeps nothing on disk", a.cfg.Backend)
	}
	return inv, nil
}
