package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ID identifies a task within its day list. Older exports carry numeric
// ids; those are kept as their decimal text.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func NewID() ID {
	return ID(uuid.NewString())
}

type Task struct {
	ID        ID     `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Created   string `json:"created"`
	MovedFrom string `json:"movedFrom,omitempty"`
}

// Map holds the task lists keyed by ISO date. Slice order is display order.
type Map map[string][]Task

// Clone returns a deep copy of m.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for date, list := range m {
		cp := make([]Task, len(list))
		copy(cp, list)
		out[date] = cp
	}
	return out
}

type Counts struct {
	Completed int
	Total     int
}

func countList(list []Task) Counts {
	c := Counts{Total: len(list)}
	for _, t := range list {
		if t.Completed {
			c.Completed++
		}
	}
	return c
}

// CreatedLayout renders the display-only creation time of a task.
const CreatedLayout = "3:04:05 PM"
