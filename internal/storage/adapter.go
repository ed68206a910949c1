package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Keys under which the stores keep their blobs.
const (
	KeyTasks         = "producerTasks"
	KeyLastVisitDate = "lastVisitDate"
	KeyIdeas         = "producerIdeas"
)

// CorruptSuffix is appended to a key when an unreadable blob is set aside.
const CorruptSuffix = ".corrupt"

// Backends accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Adapter loads and saves named blobs. Both calls block until the
// underlying storage has answered.
type Adapter interface {
	Load(key string) (value string, ok bool, err error)
	Save(key, value string) error
}

// Inventory is implemented by the on-disk backends.
type Inventory interface {
	Keys() ([]string, error)
	Delete(key string) error
}

// ParseError reports a blob that is not valid JSON for its store.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PersistenceError reports a failed read or write against an Adapter.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsParseError reports whether err carries a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsPersistenceError reports whether err carries a *PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// Open builds the adapter for backend. location is the database file for
// sqlite and the directory for file; memory ignores it. The returned close
// function is never nil.
func Open(backend, location string) (Adapter, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendSQLite, "":
		s, err := OpenSQLite(location)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case BackendFile:
		d, err := OpenDir(location)
		if err != nil {
			return nil, nil, err
		}
		return d, func() error { return nil }, nil
	case BackendMemory:
		return NewMemory(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
