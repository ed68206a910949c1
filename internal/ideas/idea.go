package ideas

import (
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var priorityCycle = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Next returns the following priority in low → medium → high → low.
// Unknown values restart the cycle at low.
func (p Priority) Next() Priority {
	for i, c := range priorityCycle {
		if c == p {
			return priorityCycle[(i+1)%len(priorityCycle)]
		}
	}
	return priorityCycle[0]
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusActive
	}
	return StatusCompleted
}

// CategoryBucketList is the only category the app assigns today.
const CategoryBucketList = "bucket-list"

type Idea struct {
	ID       int64     `json:"id"`
	Text     string    `json:"text"`
	Category string    `json:"category"`
	Created  time.Time `json:"created"`
	Priority Priority  `json:"priority"`
	Status   Status    `json:"status"`
}

// Filter selects ideas by status. FilterAll matches everything.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = Filter(StatusActive)
	FilterCompleted Filter = Filter(StatusCompleted)
)

var filterCycle = []Filter{FilterAll, FilterActive, FilterCompleted}

func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range filterCycle {
		if c == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q (want all, active or completed)", s)
}

// Next returns the following filter in all → active → completed → all.
func (f Filter) Next() Filter {
	for i, c := range filterCycle {
		if c == f {
			return filterCycle[(i+1)%len(filterCycle)]
		}
	}
	return FilterAll
}

func (f Filter) Match(i Idea) bool {
	if f == FilterAll {
		return true
	}
	return string(i.Status) == string(f)
}
