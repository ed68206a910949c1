package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"producer/internal/clock"
	"producer/internal/queue"
	"producer/internal/storage"
)

// Store owns the date-keyed task lists. Every method runs on the shared
// mutation queue, so the store itself holds no lock.
type Store struct {
	adapter   storage.Adapter
	clock     clock.Clock
	queue     queue.Runner
	retention int
	newID     func() ID

	tasks     Map
	lastVisit string
}

type Option func(*Store)

func WithRetentionDays(days int) Option {
	return func(s *Store) {
		if days > 0 {
			s.retention = days
		}
	}
}

// WithIDGenerator replaces the uuid-based id source.
func WithIDGenerator(fn func() ID) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewStore(adapter storage.Adapter, clk clock.Clock, q queue.Runner, opts ...Option) *Store {
	s := &Store{
		adapter:   adapter,
		clock:     clk,
		queue:     q,
		retention: DefaultRetentionDays,
		newID:     NewID,
		tasks:     Map{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report summarises one maintenance pass.
type Report struct {
	Today        string
	PrunedTasks  int
	RemovedDates int
	MovedTasks   int
	MovedFrom    string
}

// Hydrate loads the persisted lists and last visit date, then runs one
// maintenance pass. A corrupt tasks blob is set aside under its .corrupt key
// and the store starts empty; the returned error then carries a
// *storage.ParseError but the store is ready for use.
func (s *Store) Hydrate(ctx context.Context) (Report, error) {
	var rep Report
	err := s.queue.Do(ctx, func() error {
		var errs []error

		raw, ok, err := s.adapter.Load(storage.KeyTasks)
		if err != nil {
			return wrapPersistence("load", storage.KeyTasks, err)
		}
		s.tasks = Map{}
		if ok {
			m, err := decodeMap(raw, storage.KeyTasks)
			if err != nil {
				errs = append(errs, err)
				if serr := s.adapter.Save(storage.KeyTasks+storage.CorruptSuffix, raw); serr != nil {
					errs = append(errs, wrapPersistence("save", storage.KeyTasks+storage.CorruptSuffix, serr))
				}
			} else {
				s.tasks = m
			}
		}

		last, ok, err := s.adapter.Load(storage.KeyLastVisitDate)
		if err != nil {
			errs = append(errs, wrapPersistence("load", storage.KeyLastVisitDate, err))
		}
		s.lastVisit = ""
		if ok {
			last = strings.TrimSpace(last)
			if _, perr := clock.ParseDate(last); perr == nil {
				s.lastVisit = last
			}
		}

		rep, err = s.maintain()
		if err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})
	return rep, err
}

// Maintain prunes and rolls over the in-memory lists and persists them.
// Rollover fires only when the calendar day differs from the last visit, so
// repeated calls on the same day change nothing.
func (s *Store) Maintain(ctx context.Context) (Report, error) {
	var rep Report
	err := s.queue.Do(ctx, func() error {
		var err error
		rep, err = s.maintain()
		return err
	})
	return rep, err
}

func (s *Store) maintain() (Report, error) {
	today := clock.Today(s.clock)
	rep := Report{Today: today}

	stats := Prune(s.tasks, today, s.retention)
	rep.PrunedTasks = stats.Tasks
	rep.RemovedDates = stats.Dates

	dayChanged := s.lastVisit != today
	if dayChanged {
		if s.lastVisit != "" {
			rep.MovedTasks = Rollover(s.tasks, s.lastVisit, today, s.newID)
			rep.MovedFrom = s.lastVisit
		}
		s.lastVisit = today
	}

	var errs []error
	if err := s.saveTasks(); err != nil {
		errs = append(errs, err)
	}
	if dayChanged {
		if err := s.adapter.Save(storage.KeyLastVisitDate, today); err != nil {
			errs = append(errs, wrapPersistence("save", storage.KeyLastVisitDate, err))
		}
	}
	return rep, errors.Join(errs...)
}

// AddTask appends a new incomplete task to date. Text that is empty after
// trimming is ignored and reported with ok == false.
func (s *Store) AddTask(ctx context.Context, date, text string) (Task, bool, error) {
	if _, err := clock.ParseDate(date); err != nil {
		return Task{}, false, fmt.Errorf("invalid date %q: %w", date, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false, nil
	}

	var task Task
	err := s.queue.Do(ctx, func() error {
		task = Task{
			ID:      s.newID(),
			Text:    text,
			Created: s.clock.Now().Format(CreatedLayout),
		}
		s.tasks[date] = append(s.tasks[date], task)
		return s.saveTasks()
	})
	if err != nil && !storage.IsPersistenceError(err) {
		return Task{}, false, err
	}
	return task, true, err
}

type ToggleResult struct {
	Task  Task
	Found bool
	// Celebrate is set when the task has just been completed.
	Celebrate bool
}

// ToggleTask flips the completed flag of one task. Unknown dates or ids are
// a no-op.
func (s *Store) ToggleTask(ctx context.Context, date string, id ID) (ToggleResult, error) {
	var res ToggleResult
	err := s.queue.Do(ctx, func() error {
		list := s.tasks[date]
		for i := range list {
			if list[i].ID != id {
				continue
			}
			list[i].Completed = !list[i].Completed
			res = ToggleResult{Task: list[i], Found: true, Celebrate: list[i].Completed}
			return s.saveTasks()
		}
		return nil
	})
	if err != nil && !storage.IsPersistenceError(err) {
		return ToggleResult{}, err
	}
	return res, err
}

// DeleteTask removes one task. The date stays in the map even when its
// list becomes empty; only maintenance removes empty dates.
func (s *Store) DeleteTask(ctx context.Context, date string, id ID) (bool, error) {
	var found bool
	err := s.queue.Do(ctx, func() error {
		list, ok := s.tasks[date]
		if !ok {
			return nil
		}
		kept := make([]Task, 0, len(list))
		for _, t := range list {
			if t.ID == id {
				found = true
				continue
			}
			kept = append(kept, t)
		}
		if !found {
			return nil
		}
		s.tasks[date] = kept
		return s.saveTasks()
	})
	if err != nil && !storage.IsPersistenceError(err) {
		return false, err
	}
	return found, err
}

// ExportAll renders every list as indented JSON, the same shape as the
// persisted blob.
func (s *Store) ExportAll(ctx context.Context) (string, error) {
	var out string
	err := s.queue.Do(ctx, func() error {
		data, err := json.MarshalIndent(s.tasks, "", "  ")
		if err != nil {
			return err
		}
		out = string(data)
		return nil
	})
	return out, err
}

// ImportMerge parses text and overwrites each imported date's list in one
// step. On a parse error nothing changes. It returns the number of dates
// written.
func (s *Store) ImportMerge(ctx context.Context, text string) (int, error) {
	imported, err := decodeMap(text, "import")
	if err != nil {
		return 0, err
	}

	err = s.queue.Do(ctx, func() error {
		for date, list := range imported {
			for i := range list {
				if list[i].ID == "" {
					list[i].ID = s.newID()
				}
			}
			s.tasks[date] = list
		}
		return s.saveTasks()
	})
	if err != nil && !storage.IsPersistenceError(err) {
		return 0, err
	}
	return len(imported), err
}

// Snapshot returns a deep copy of all lists.
func (s *Store) Snapshot(ctx context.Context) (Map, error) {
	var m Map
	err := s.queue.Do(ctx, func() error {
		m = s.tasks.Clone()
		return nil
	})
	return m, err
}

// Tasks returns a copy of one date's list in display order.
func (s *Store) Tasks(ctx context.Context, date string) ([]Task, error) {
	var list []Task
	err := s.queue.Do(ctx, func() error {
		list = append([]Task(nil), s.tasks[date]...)
		return nil
	})
	return list, err
}

func (s *Store) Counts(ctx context.Context, date string) (Counts, error) {
	var c Counts
	err := s.queue.Do(ctx, func() error {
		c = countList(s.tasks[date])
		return nil
	})
	return c, err
}

// CountsFor returns counts for several dates in one pass.
func (s *Store) CountsFor(ctx context.Context, dates []string) (map[string]Counts, error) {
	out := make(map[string]Counts, len(dates))
	err := s.queue.Do(ctx, func() error {
		for _, d := range dates {
			out[d] = countList(s.tasks[d])
		}
		return nil
	})
	return out, err
}

// HasDate reports whether date is a key of the map, even with an empty list.
func (s *Store) HasDate(ctx context.Context, date string) (bool, error) {
	var ok bool
	err := s.queue.Do(ctx, func() error {
		_, ok = s.tasks[date]
		return nil
	})
	return ok, err
}

func (s *Store) LastVisit(ctx context.Context) (string, error) {
	var last string
	err := s.queue.Do(ctx, func() error {
		last = s.lastVisit
		return nil
	})
	return last, err
}

func (s *Store) Today() string {
	return clock.Today(s.clock)
}

// RecentDates lists today and the n-1 days before it, newest first.
func (s *Store) RecentDates(n int) []string {
	now := s.clock.Now()
	dates := make([]string, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, clock.Date(now.AddDate(0, 0, -i)))
	}
	return dates
}

// Save persists the current lists again, for retrying after a failed write.
func (s *Store) Save(ctx context.Context) error {
	return s.queue.Do(ctx, s.saveTasks)
}

func (s *Store) saveTasks() error {
	data, err := json.Marshal(s.tasks)
	if err != nil {
		return err
	}
	if err := s.adapter.Save(storage.KeyTasks, string(data)); err != nil {
		return wrapPersistence("save", storage.KeyTasks, err)
	}
	return nil
}

func decodeMap(raw, source string) (Map, error) {
	var m Map
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, &storage.ParseError{Source: source, Err: err}
	}
	if m == nil {
		m = Map{}
	}
	for date, list := range m {
		if _, err := clock.ParseDate(date); err != nil {
			return nil, &storage.ParseError{Source: source, Err: fmt.Errorf("date key %q: %w", date, err)}
		}
		if list == nil {
			m[date] = []Task{}
		}
	}
	return m, nil
}

func wrapPersistence(op, key string, err error) error {
	if storage.IsPersistenceError(err) {
		return err
	}
	return &storage.PersistenceError{Op: op, Key: key, Err: err}
}
