package ideas

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"producer/internal/clock"
	"producer/internal/queue"
	"producer/internal/storage"
)

var now = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, a storage.Adapter) (*Store, *clock.Fake) {
	t.Helper()
	q := queue.New()
	t.Cleanup(q.Close)
	clk := clock.NewFake(now)
	return NewStore(a, clk, q), clk
}

func TestLearnToSurfScenario(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, storage.NewMemory())

	idea, ok, err := s.AddIdea(ctx, "Learn to surf")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusActive, idea.Status)
	assert.Equal(t, PriorityMedium, idea.Priority)
	assert.Equal(t, CategoryBucketList, idea.Category)
	assert.Equal(t, now, idea.Created)

	idea, ok, err = s.CyclePriority(ctx, idea.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, PriorityHigh, idea.Priority)

	idea, ok, err = s.ToggleStatus(ctx, idea.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, idea.Status)

	completed, err := s.FilterBy(ctx, FilterCompleted)
	require.NoError(t, err)
	assert.Equal(t, []Idea{idea}, completed)

	active, err := s.FilterBy(ctx, FilterActive)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestAddIdeaRejectsBlankText(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	s, _ := newTestStore(t, mem)

	for _, text := range []string{"", "  ", "\n\t"} {
		_, ok, err := s.AddIdea(ctx, text)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, mem.Keys())
}

func TestPriorityCycleIsClosed(t *testing.T) {
	for _, p := range priorityCycle {
		assert.Equal(t, p, p.Next().Next().Next(), "start %s", p)
	}
	assert.Equal(t, PriorityLow, PriorityHigh.Next())
	assert.Equal(t, PriorityLow, Priority("urgent").Next())
}

func TestCyclePriorityThreeTimes(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, storage.NewMemory())
	idea, _, err := s.AddIdea(ctx, "Visit Iceland")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _, err = s.CyclePriority(ctx, idea.ID)
		require.NoError(t, err)
	}
	got, ok, err := s.Get(ctx, idea.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, PriorityMedium, got.Priority)
}

func TestFilterLaw(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, storage.NewMemory())
	for i, text := range []string{"a", "b", "c", "d", "e"} {
		idea, _, err := s.AddIdea(ctx, text)
		require.NoError(t, err)
		if i%2 == 0 {
			_, _, err = s.ToggleStatus(ctx, idea.ID)
			require.NoError(t, err)
		}
	}

	all, err := s.FilterBy(ctx, FilterAll)
	require.NoError(t, err)
	active, err := s.FilterBy(ctx, FilterActive)
	require.NoError(t, err)
	completed, err := s.FilterBy(ctx, FilterCompleted)
	require.NoError(t, err)

	assert.Len(t, all, 5)
	seen := map[int64]int{}
	for _, i := range all {
		seen[i.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "idea %d listed %d times", id, n)
	}

	union := map[int64]bool{}
	for _, i := range active {
		union[i.ID] = true
	}
	for _, i := range completed {
		assert.False(t, union[i.ID], "idea %d is both active and completed", i.ID)
		union[i.ID] = true
	}
	assert.Len(t, union, len(all))
	assert.Len(t, completed, 3)
}

func TestDeleteIdea(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, storage.NewMemory())
	a, _, _ := s.AddIdea(ctx, "a")
	b, _, _ := s.AddIdea(ctx, "b")

	found, err := s.DeleteIdea(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.DeleteIdea(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, found)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Idea{b}, all)
}

func TestUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	s, _ := newTestStore(t, mem)

	_, ok, err := s.ToggleStatus(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = s.CyclePriority(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, mem.Keys())
}

func TestIDsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	s, clk := newTestStore(t, storage.NewMemory())

	a, _, _ := s.AddIdea(ctx, "same millisecond")
	b, _, _ := s.AddIdea(ctx, "same millisecond too")
	assert.Equal(t, now.UnixMilli(), a.ID)
	assert.Equal(t, a.ID+1, b.ID)

	clk.Set(now.Add(-time.Hour))
	c, _, _ := s.AddIdea(ctx, "clock went back")
	assert.Greater(t, c.ID, b.ID)
}

func TestHydrateKeepsOrderAndIDs(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, mem.Save(storage.KeyIdeas, `[
  {"id": 1709971200000, "text": "Run a marathon", "category": "bucket-list", "created": "2024-03-09T08:00:00.000Z", "priority": "high", "status": "active"},
  {"id": 1709971300000, "text": "Write a book", "category": "bucket-list", "created": "2024-03-09T08:01:40.000Z", "priority": "low", "status": "completed"}
]`))
	s, _ := newTestStore(t, mem)
	require.NoError(t, s.Hydrate(ctx))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Run a marathon", all[0].Text)
	assert.Equal(t, PriorityLow, all[1].Priority)

	idea, _, err := s.AddIdea(ctx, "newest")
	require.NoError(t, err)
	assert.Greater(t, idea.ID, int64(1709971300000))

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[Status]int{StatusActive: 2, StatusCompleted: 1}, counts)

	var persisted []Idea
	raw, _, _ := mem.Load(storage.KeyIdeas)
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Len(t, persisted, 3)
}

func TestHydrateCorruptBlob(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, mem.Save(storage.KeyIdeas, `{"oops":`))
	s, _ := newTestStore(t, mem)

	err := s.Hydrate(ctx)
	require.Error(t, err)
	assert.True(t, storage.IsParseError(err))

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	raw, ok, _ := mem.Load(storage.KeyIdeas + storage.CorruptSuffix)
	assert.True(t, ok)
	assert.Equal(t, `{"oops":`, raw)
}

type failingAdapter struct{ *storage.Memory }

func (failingAdapter) Save(string, string) error { return errors.New("read-only") }

func TestPersistenceFailureKeepsIdea(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, failingAdapter{storage.NewMemory()})

	idea, ok, err := s.AddIdea(ctx, "kept in memory")
	require.Error(t, err)
	assert.True(t, storage.IsPersistenceError(err))
	assert.True(t, ok)

	got, found, err := s.Get(ctx, idea.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "kept in memory", got.Text)
	assert.Error(t, s.Save(ctx))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(" Active ")
	require.NoError(t, err)
	assert.Equal(t, FilterActive, f)

	_, err = ParseFilter("bucket-list")
	assert.Error(t, err)

	assert.Equal(t, FilterActive, FilterAll.Next())
	assert.Equal(t, FilterCompleted, FilterActive.Next())
	assert.Equal(t, FilterAll, FilterCompleted.Next())
}
