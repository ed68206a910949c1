package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"producer/internal/clock"
	"producer/internal/config"
	"producer/internal/ideas"
	"producer/internal/queue"
	"producer/internal/storage"
	"producer/internal/tasks"
)

type app struct {
	cfg          config.Config
	adapter      storage.Adapter
	queue        *queue.Queue
	tasks        *tasks.Store
	ideas        *ideas.Store
	closeStorage func() error
}

func loadConfig(flagPath string) (config.Config, string, error) {
	path := flagPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, path, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, path, nil
}

// openApp wires storage, the mutation queue and both stores, then hydrates
// them. Unreadable blobs are logged and replaced; a storage read failure
// aborts so nothing on disk is overwritten.
func openApp(ctx context.Context, cfg config.Config) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	adapter, closeStorage, err := storage.Open(cfg.Backend, cfg.StorageLocation())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	q := queue.New()
	clk := clock.Real{Location: loc}
	a := &app{
		cfg:          cfg,
		adapter:      adapter,
		queue:        q,
		tasks:        tasks.NewStore(adapter, clk, q, tasks.WithRetentionDays(cfg.RetentionDays)),
		ideas:        ideas.NewStore(adapter, clk, q),
		closeStorage: closeStorage,
	}

	rep, err := a.tasks.Hydrate(ctx)
	if err := a.checkHydrate("tasks", err); err != nil {
		a.Close()
		return nil, err
	}
	if rep.MovedTasks > 0 {
		log.Printf("moved %d unfinished task(s) from %s to %s", rep.MovedTasks, rep.MovedFrom, rep.Today)
	}
	if err := a.checkHydrate("ideas", a.ideas.Hydrate(ctx)); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) checkHydrate(name string, err error) error {
	if err == nil {
		return nil
	}
	var pe *storage.PersistenceError
	if errors.As(err, &pe) && pe.Op == "load" {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}
	if errors.Is(err, queue.ErrClosed) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	log.Printf("%s: %v", name, err)
	return nil
}

func (a *app) Close() error {
	a.queue.Close()
	return a.closeStorage()
}

func openFromFlag(cmd *cobra.Command, flagPath string) (*app, error) {
	cfg, _, err := loadConfig(flagPath)
	if err != nil {
		return nil, err
	}
	return openApp(cmd.Context(), cfg)
}
