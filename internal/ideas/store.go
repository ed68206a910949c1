package ideas

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"producer/internal/clock"
	"producer/internal/queue"
	"producer/internal/storage"
)

// Store owns the ordered idea list. Insertion order is kept; status and
// priority changes never reorder.
type Store struct {
	adapter storage.Adapter
	clock   clock.Clock
	queue   queue.Runner

	ideas  []Idea
	lastID int64
}

func NewStore(adapter storage.Adapter, clk clock.Clock, q queue.Runner) *Store {
	return &Store{adapter: adapter, clock: clk, queue: q}
}

// Hydrate loads the persisted list. A corrupt blob is set aside under its
// .corrupt key and the store starts empty.
func (s *Store) Hydrate(ctx context.Context) error {
	return s.queue.Do(ctx, func() error {
		raw, ok, err := s.adapter.Load(storage.KeyIdeas)
		if err != nil {
			return wrapPersistence("load", storage.KeyIdeas, err)
		}
		s.ideas = nil
		s.lastID = 0
		if !ok {
			return nil
		}

		var list []Idea
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			perr := &storage.ParseError{Source: storage.KeyIdeas, Err: err}
			if serr := s.adapter.Save(storage.KeyIdeas+storage.CorruptSuffix, raw); serr != nil {
				return errors.Join(perr, wrapPersistence("save", storage.KeyIdeas+storage.CorruptSuffix, serr))
			}
			return perr
		}
		s.ideas = list
		for _, i := range list {
			if i.ID > s.lastID {
				s.lastID = i.ID
			}
		}
		return nil
	})
}

// AddIdea appends an active, medium priority idea. Blank text is ignored
// and reported with ok == false.
func (s *Store) AddIdea(ctx context.Context, text string) (Idea, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Idea{}, false, nil
	}
	var idea Idea
	err := s.queue.Do(ctx, func() error {
		now := s.clock.Now()
		idea = Idea{
			ID:       s.nextID(now.UnixMilli()),
			Text:     text,
			Category: CategoryBucketList,
			Created:  now.UTC(),
			Priority: PriorityMedium,
			Status:   StatusActive,
		}
		s.ideas = append(s.ideas, idea)
		return s.save()
	})
	if err != nil && !storage.IsPersistenceError(err) {
		return Idea{}, false, err
	}
	return idea, true, err
}

// nextID keeps ids time-derived but strictly increasing.
func (s *Store) nextID(candidate int64) int64 {
	if candidate <= s.lastID {
		candidate = s.lastID + 1
	}
	s.lastID = candidate
	return candidate
}

func (s *Store) DeleteIdea(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := s.queue.Do(ctx, func() error {
		kept := make([]Idea, 0, len(s.ideas))
		for _, i := range s.ideas {
			if i.ID == id {
				found = true
				continue
			}
			kept = append(kept, i)
		}
		if !found {
			return nil
		}
		s.ideas = kept
		return s.save()
	})
	if err != nil && !storage.IsPersistenceError(err) {
		return false, err
	}
	return found, err
}

// ToggleStatus flips active and completed.
func (s *Store) ToggleStatus(ctx context.Context, id int64) (Idea, bool, error) {
	return s.update(ctx, id, func(i *Idea) { i.Status = i.Status.Toggle() })
}

// CyclePriority advances low → medium → high → low.
func (s *Store) CyclePriority(ctx context.Context, id int64) (Idea, bool, error) {
	return s.update(ctx, id, func(i *Idea) { i.Priority = i.Priority.Next() })
}

func (s *Store) update(ctx context.Context, id int64, fn func(*Idea)) (Idea, bool, error) {
	var (
		out   Idea
		found bool
	)
	err := s.queue.Do(ctx, func() error {
		for idx := range s.ideas {
			if s.ideas[idx].ID != id {
				continue
			}
			fn(&s.ideas[idx])
			out, found = s.ideas[idx], true
			return s.save()
		}
		return nil
	})
	if err != nil && !storage.IsPersistenceError(err) {
		return Idea{}, false, err
	}
	return out, found, err
}

// FilterBy returns the ideas matching f in insertion order.
func (s *Store) FilterBy(ctx context.Context, f Filter) ([]Idea, error) {
	var out []Idea
	err := s.queue.Do(ctx, func() error {
		out = make([]Idea, 0, len(s.ideas))
		for _, i := range s.ideas {
			if f.Match(i) {
				out = append(out, i)
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) All(ctx context.Context) ([]Idea, error) {
	return s.FilterBy(ctx, FilterAll)
}

func (s *Store) Get(ctx context.Context, id int64) (Idea, bool, error) {
	var (
		out   Idea
		found bool
	)
	err := s.queue.Do(ctx, func() error {
		for _, i := range s.ideas {
			if i.ID == id {
				out, found = i, true
				break
			}
		}
		return nil
	})
	return out, found, err
}

// Counts returns the number of ideas per status.
func (s *Store) Counts(ctx context.Context) (map[Status]int, error) {
	out := map[Status]int{StatusActive: 0, StatusCompleted: 0}
	err := s.queue.Do(ctx, func() error {
		for _, i := range s.ideas {
			out[i.Status]++
		}
		return nil
	})
	return out, err
}

// Save persists the list again, for retrying after a failed write.
func (s *Store) Save(ctx context.Context) error {
	return s.queue.Do(ctx, s.save)
}

func (s *Store) save() error {
	list := s.ideas
	if list == nil {
		list = []Idea{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	if err := s.adapter.Save(storage.KeyIdeas, string(data)); err != nil {
		return wrapPersistence("save", storage.KeyIdeas, err)
	}
	return nil
}

func wrapPersistence(op, key string, err error) error {
	if storage.IsPersistenceError(err) {
		return err
	}
	return &storage.PersistenceError{Op: op, Key: key, Err: err}
}
