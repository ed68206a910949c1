package tasks

import (
	"producer/internal/clock"
)

// DefaultRetentionDays is how long completed tasks are kept.
const DefaultRetentionDays = 7

// PruneStats describes what Prune removed.
type PruneStats struct {
	Tasks int
	Dates int
}

// Prune keeps a task when it is incomplete or its date is later than
// today minus retentionDays. Dates left without tasks are removed, including
// lists that were already empty. m is modified in place.
func Prune(m Map, today string, retentionDays int) PruneStats {
	var stats PruneStats
	now, todayErr := clock.ParseDate(today)
	cutoff := now.AddDate(0, 0, -retentionDays)

	for date, list := range m {
		recent := false
		if d, err := clock.ParseDate(date); err == nil && todayErr == nil {
			recent = d.After(cutoff)
		}

		kept := make([]Task, 0, len(list))
		for _, t := range list {
			if !t.Completed || recent {
				kept = append(kept, t)
			}
		}
		stats.Tasks += len(list) - len(kept)

		if len(kept) == 0 {
			delete(m, date)
			stats.Dates++
			continue
		}
		m[date] = kept
	}
	return stats
}

// Rollover appends a fresh copy of every incomplete task of lastVisit to
// today's list and returns how many were copied. The copies get new ids and
// MovedFrom = lastVisit; the originals stay where they are.
func Rollover(m Map, lastVisit, today string, newID func() ID) int {
	if lastVisit == "" || lastVisit == today {
		return 0
	}
	var moved []Task
	for _, t := range m[lastVisit] {
		if t.Completed {
			continue
		}
		t.ID = newID()
		t.MovedFrom = lastVisit
		moved = append(moved, t)
	}
	if len(moved) == 0 {
		return 0
	}
	m[today] = append(m[today], moved...)
	return len(moved)
}
