package tasks

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seqIDs() func() ID {
	n := 0
	return func() ID {
		n++
		return ID(fmt.Sprintf("t%d", n))
	}
}

func TestPrune(t *testing.T) {
	m := Map{
		"2026-03-02": {{ID: "a", Text: "old done", Completed: true}, {ID: "b", Text: "old open"}},
		"2026-03-03": {{ID: "c", Text: "boundary done", Completed: true}},
		"2026-03-04": {{ID: "d", Text: "recent done", Completed: true}},
		"2026-03-09": {},
		"2026-03-10": {{ID: "e", Text: "today"}},
	}

	stats := Prune(m, "2026-03-10", 7)

	assert.Equal(t, Map{
		"2026-03-02": {{ID: "b", Text: "old open"}},
		"2026-03-04": {{ID: "d", Text: "recent done", Completed: true}},
		"2026-03-10": {{ID: "e", Text: "today"}},
	}, m)
	assert.Equal(t, PruneStats{Tasks: 2, Dates: 2}, stats)
}

func TestPruneLaw(t *testing.T) {
	m := Map{}
	for day := 1; day <= 28; day++ {
		date := fmt.Sprintf("2026-02-%02d", day)
		m[date] = []Task{
			{ID: "done", Completed: true},
			{ID: "open", Completed: day%3 == 0},
		}
	}

	Prune(m, "2026-02-28", 7)

	for date, list := range m {
		assert.NotEmpty(t, list, "date %s kept with no tasks", date)
		for _, task := range list {
			if task.Completed {
				assert.Greater(t, date, "2026-02-21", "completed task survived on %s", date)
			}
		}
	}
}

func TestPruneCustomRetention(t *testing.T) {
	m := Map{
		"2026-03-08": {{ID: "a", Completed: true}},
		"2026-03-09": {{ID: "b", Completed: true}},
	}
	Prune(m, "2026-03-10", 1)
	assert.Equal(t, Map{}, m)
}

func TestRollover(t *testing.T) {
	m := Map{
		"2026-03-09": {
			{ID: "a", Text: "done already", Completed: true, Created: "9:00:00 AM"},
			{ID: "b", Text: "carry me", Created: "9:05:00 AM"},
		},
		"2026-03-10": {{ID: "c", Text: "fresh"}},
	}

	moved := Rollover(m, "2026-03-09", "2026-03-10", seqIDs())

	assert.Equal(t, 1, moved)
	assert.Equal(t, []Task{
		{ID: "c", Text: "fresh"},
		{ID: "t1", Text: "carry me", Created: "9:05:00 AM", MovedFrom: "2026-03-09"},
	}, m["2026-03-10"])
	assert.Len(t, m["2026-03-09"], 2, "originals stay on their day")
}

func TestRolloverNoop(t *testing.T) {
	m := Map{"2026-03-10": {{ID: "a", Text: "x"}}}

	assert.Zero(t, Rollover(m, "", "2026-03-10", seqIDs()))
	assert.Zero(t, Rollover(m, "2026-03-10", "2026-03-10", seqIDs()))
	assert.Zero(t, Rollover(m, "2026-03-01", "2026-03-10", seqIDs()))
	assert.Equal(t, Map{"2026-03-10": {{ID: "a", Text: "x"}}}, m)
}
