package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir stores each blob as <key>.json inside a directory.
type Dir struct {
	path string
}

func OpenDir(path string) (*Dir, error) {
	if path == "" {
		return nil, errors.New("data dir is empty")
	}
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, fmt.Errorf("storage error creating %s: %w", path, err)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) Path() string { return d.path }

func (d *Dir) filePath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(d.path, key+".json"), nil
}

func (d *Dir) Load(key string) (string, bool, error) {
	path, err := d.filePath(key)
	if err != nil {
		return "", false, &PersistenceError{Op: "load", Key: key, Err: err}
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &PersistenceError{Op: "load", Key: key, Err: err}
	}
	return string(data), true, nil
}

// Save writes atomically: temp file first, then rename over the target.
func (d *Dir) Save(key, value string) error {
	path, err := d.filePath(key)
	if err != nil {
		return &PersistenceError{Op: "save", Key: key, Err: err}
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(value), 0o600); err != nil {
		return &PersistenceError{Op: "save", Key: key, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &PersistenceError{Op: "save", Key: key, Err: err}
	}
	return nil
}

// Keys lists the stored keys in lexical order. Leftover temp files are
// skipped.
func (d *Dir) Keys() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys, nil
}

func (d *Dir) Delete(key string) error {
	path, err := d.filePath(key)
	if err != nil {
		return &PersistenceError{Op: "delete", Key: key, Err: err}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &PersistenceError{Op: "delete", Key: key, Err: err}
	}
	return nil
}
