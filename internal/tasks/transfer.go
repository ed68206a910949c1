package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ExportFileName is the suggested backup name for the given day.
func ExportFileName(date string) string {
	return fmt.Sprintf("producer-tasks-%s.json", date)
}

// ExportToDir writes ExportAll to dir under ExportFileName(today) and
// returns the path written.
func (s *Store) ExportToDir(ctx context.Context, dir string) (string, error) {
	data, err := s.ExportAll(ctx)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, ExportFileName(s.Today()))
	if err := os.WriteFile(path, []byte(data+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// ImportFile merges the JSON export at path into the store.
func (s *Store) ImportFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read import: %w", err)
	}
	return s.ImportMerge(ctx, string(data))
}
