package api

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedtray/internal/domain/feed"
)

func openTestLocal(t *testing.T) *Local {
	t.Helper()
	client, err := OpenLocal(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Init(context.Background()))
	return client
}

func TestLocalRoundTrip(t *testing.T) {
	client := openTestLocal(t)
	ctx := context.Background()

	news, err := client.CreateCategory(ctx, "News", "")
	require.NoError(t, err)
	tech, err := client.CreateCategory(ctx, "Tech", news.ID)
	require.NoError(t, err)

	require.NoError(t, client.SaveFeed(ctx, feed.Feed{
		ID: "f1", Title: "Go Blog", CategoryID: tech.ID,
		UnreadCount: 2, EntryCount: 9, Tags: []string{"go", "dev"},
	}))

	feeds, err := client.ListFeeds(ctx)
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	assert.Equal(t, tech.ID, feeds[0].CategoryID)
	assert.Equal(t, []string{"go", "dev"}, feeds[0].Tags)

	categories, err := client.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, news.ID, categories[1].ParentID)
}

func TestLocalUpdateFeedCategory(t *testing.T) {
	client := openTestLocal(t)
	ctx := context.Background()

	cat, err := client.CreateCategory(ctx, "Target", "")
	require.NoError(t, err)
	require.NoError(t, client.SaveFeed(ctx, feed.Feed{ID: "f1", Title: "Feed"}))

	updated, err := client.UpdateFeed(ctx, "f1", FeedChanges{CategoryID: &cat.ID})
	require.NoError(t, err)
	assert.Equal(t, cat.ID, updated.CategoryID)
	assert.Equal(t, "Feed", updated.Title)
}

func TestLocalDeleteCategoryUncategorizesFeeds(t *testing.T) {
	client := openTestLocal(t)
	ctx := context.Background()

	parent, err := client.CreateCategory(ctx, "Parent", "")
	require.NoError(t, err)
	child, err := client.CreateCategory(ctx, "Child", parent.ID)
	require.NoError(t, err)
	require.NoError(t, client.SaveFeed(ctx, feed.Feed{ID: "f1", Title: "Feed", CategoryID: parent.ID}))

	require.NoError(t, client.DeleteCategory(ctx, parent.ID))

	feeds, err := client.ListFeeds(ctx)
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	assert.Empty(t, feeds[0].CategoryID)

	categories, err := client.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, child.ID, categories[0].ID)
	assert.Empty(t, categories[0].ParentID)
}

func TestLocalDeleteFeedNotFound(t *testing.T) {
	client := openTestLocal(t)
	err := client.DeleteFeed(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalRefreshClearsError(t *testing.T) {
	client := openTestLocal(t)
	ctx := context.Background()

	require.NoError(t, client.SaveFeed(ctx, feed.Feed{
		ID: "f1", Title: "Broken", LastError: "connection timed out",
	}))

	refreshed, err := client.RefreshFeed(ctx, "f1")
	require.NoError(t, err)
	require.NotNil(t, refreshed)
	assert.False(t, refreshed.HasError())
	assert.NotNil(t, refreshed.NextPollAt)
}
