package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedtray/internal/domain/feed"
	"feedtray/internal/domain/tree"
)

// memStore is an in-memory StateStore for round-trip tests.
type memStore struct {
	values map[string]any
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]any)}
}

func (s *memStore) Get(_ context.Context, key string, out any) (bool, error) {
	v, ok := s.values[key]
	if !ok {
		return false, nil
	}
	switch dst := out.(type) {
	case *[]string:
		*dst = v.([]string)
	case *[]int:
		*dst = v.([]int)
	case *bool:
		*dst = v.(bool)
	}
	return true, nil
}

func (s *memStore) Set(_ context.Context, key string, value any) error {
	s.values[key] = value
	return nil
}

func categories(ids ...string) []feed.Category {
	out := make([]feed.Category, 0, len(ids))
	for _, id := range ids {
		out = append(out, feed.Category{ID: id, Title: id})
	}
	return out
}

func TestReconcileFirstObservationExpandsAll(t *testing.T) {
	e := NewExpansion()
	e.Reconcile(categories("a", "b"))

	assert.True(t, e.IsExpanded("a"))
	assert.True(t, e.IsExpanded("b"))
}

func TestReconcileRespectsRestoredState(t *testing.T) {
	store := newMemStore()
	store.values[KeyExpandedCategories] = []string{"a"}

	e := NewExpansion()
	e.Restore(context.Background(), store)
	e.Reconcile(categories("a", "b"))

	assert.True(t, e.IsExpanded("a"))
	assert.False(t, e.IsExpanded("b"), "restored collapse must survive the first reconcile")
}

func TestReconcileForceExpandsNewAndPrunesStale(t *testing.T) {
	e := NewExpansion()
	e.Reconcile(categories("a", "b"))
	e.Toggle("b")
	require.False(t, e.IsExpanded("b"))

	e.Reconcile(categories("a", "c"))

	assert.True(t, e.IsExpanded("c"), "categories created mid-session open immediately")
	assert.False(t, e.IsExpanded("b"))
	assert.NotContains(t, e.ExpandedCategories(), "b")
}

func TestReconcileIgnoresEmptyCollection(t *testing.T) {
	e := NewExpansion()
	e.Reconcile(categories("a"))
	e.Reconcile(nil)

	assert.True(t, e.IsExpanded("a"))
}

func TestExpandAllAndCollapseAll(t *testing.T) {
	e := NewExpansion()
	e.ExpandAll([]string{"a", "b"})
	e.ExpandSmart("uncategorized")
	e.ToggleTags()

	assert.True(t, e.ErrorsOpen())
	for _, kind := range tree.ErrorKinds {
		assert.True(t, e.ErrorKindOpen(kind))
	}

	e.CollapseAll()
	assert.False(t, e.IsExpanded("a"))
	assert.False(t, e.ErrorsOpen())
	assert.False(t, e.SmartOpen("uncategorized"))
	assert.False(t, e.TagsOpen())
}

func TestPersistRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	e := NewExpansion()
	e.Reconcile(categories("a", "b"))
	e.Toggle("b")
	e.ToggleErrors()
	e.ToggleErrorKind(tree.ErrorNetwork)
	e.ExpandSmart("high-volume")
	e.ToggleTags()
	e.Persist(ctx, store)

	fresh := NewExpansion()
	fresh.Restore(ctx, store)

	assert.True(t, fresh.IsExpanded("a"))
	assert.False(t, fresh.IsExpanded("b"))
	assert.True(t, fresh.ErrorsOpen())
	assert.True(t, fresh.ErrorKindOpen(tree.ErrorNetwork))
	assert.True(t, fresh.SmartOpen("high-volume"))
	assert.True(t, fresh.TagsOpen())
}

func TestNilStoreIsSafe(t *testing.T) {
	e := NewExpansion()
	e.Restore(context.Background(), nil)
	e.Persist(context.Background(), nil)
	assert.NotPanics(t, func() { e.Toggle("a") })
}
