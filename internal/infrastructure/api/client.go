// Package api defines the contract of the external feed/category
// collaborator the navigation tree talks to, plus a local sqlite-backed
// implementation. Transport is deliberately out of this package's hands:
// the tree only sees the interface.
package api

import (
	"context"

	"feedtray/internal/domain/feed"
)

// FeedChanges holds the mutable fields of an update request. Nil fields are
// left untouched server-side.
type FeedChanges struct {
	CategoryID *string
	Title      *string
}

// Client is the feed/category collaborator contract. Every call is
// synchronous from the caller's point of view; the TUI wraps them in
// bubbletea commands.
type Client interface {
	ListFeeds(ctx context.Context) ([]feed.Feed, error)
	ListCategories(ctx context.Context) ([]feed.Category, error)
	UpdateFeed(ctx context.Context, id string, changes FeedChanges) (feed.Feed, error)
	DeleteFeed(ctx context.Context, id string) error
	// RefreshFeed triggers a poll; the returned feed is nil when the server
	// has nothing newer to report.
	RefreshFeed(ctx context.Context, id string) (*feed.Feed, error)
	CreateCategory(ctx context.Context, title, parentID string) (feed.Category, error)
	UpdateCategory(ctx context.Context, id, title string) (feed.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}
