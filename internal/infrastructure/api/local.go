package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"feedtray/internal/domain/feed"
)

// ErrNotFound is returned when a referenced feed or category does not
// exist.
var ErrNotFound = errors.New("not found")

// Local implements Client over a local sqlite database, so the program is
// usable without a remote reader backend.
type Local struct {
	db *sql.DB
}

// OpenLocal opens (creating if needed) the local database at path.
func OpenLocal(path string) (*Local, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open data database: %w", err)
	}
	return &Local{db: db}, nil
}

// Close releases the database handle.
func (l *Local) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Init creates the schema.
func (l *Local) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  parent_id TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS feeds (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  icon TEXT NOT NULL DEFAULT '',
  category_id TEXT NOT NULL DEFAULT '',
  unread_count INTEGER NOT NULL DEFAULT 0,
  entry_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT NOT NULL DEFAULT '',
  next_poll_at TEXT,
  tags TEXT NOT NULL DEFAULT ''
);
`
	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// ListFeeds implements Client.
func (l *Local) ListFeeds(ctx context.Context) ([]feed.Feed, error) {
	rows, err := l.db.QueryContext(ctx, `
SELECT id, title, icon, category_id, unread_count, entry_count, last_error, next_poll_at, tags
FROM feeds ORDER BY rowid
`)
	if err != nil {
		return nil, fmt.Errorf("query feeds: %w", err)
	}
	defer rows.Close()

	var feeds []feed.Feed
	for rows.Next() {
		f, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return feeds, nil
}

// ListCategories implements Client.
func (l *Local) ListCategories(ctx context.Context) ([]feed.Category, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT id, title, parent_id FROM categories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []feed.Category
	for rows.Next() {
		var c feed.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.ParentID); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return categories, nil
}

// UpdateFeed implements Client. It applies the non-nil changes and returns
// the stored feed.
func (l *Local) UpdateFeed(ctx context.Context, id string, changes FeedChanges) (feed.Feed, error) {
	if changes.CategoryID != nil {
		if _, err := l.db.ExecContext(ctx,
			`UPDATE feeds SET category_id = ? WHERE id = ?`, *changes.CategoryID, id); err != nil {
			return feed.Feed{}, fmt.Errorf("update feed category: %w", err)
		}
	}
	if changes.Title != nil {
		if _, err := l.db.ExecContext(ctx,
			`UPDATE feeds SET title = ? WHERE id = ?`, *changes.Title, id); err != nil {
			return feed.Feed{}, fmt.Errorf("update feed title: %w", err)
		}
	}
	return l.getFeed(ctx, id)
}

// DeleteFeed implements Client.
func (l *Local) DeleteFeed(ctx context.Context, id string) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM feeds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete feed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete feed %s: %w", id, ErrNotFound)
	}
	return nil
}

// RefreshFeed implements Client. The local store has no poller; a refresh
// clears the recorded error and bumps the next poll time.
func (l *Local) RefreshFeed(ctx context.Context, id string) (*feed.Feed, error) {
	next := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	if _, err := l.db.ExecContext(ctx,
		`UPDATE feeds SET last_error = '', next_poll_at = ? WHERE id = ?`, next, id); err != nil {
		return nil, fmt.Errorf("refresh feed: %w", err)
	}
	f, err := l.getFeed(ctx, id)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateCategory implements Client.
func (l *Local) CreateCategory(ctx context.Context, title, parentID string) (feed.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return feed.Category{}, fmt.Errorf("category title is empty")
	}
	c := feed.Category{ID: uuid.NewString(), Title: title, ParentID: parentID}
	if _, err := l.db.ExecContext(ctx,
		`INSERT INTO categories (id, title, parent_id) VALUES (?, ?, ?)`,
		c.ID, c.Title, c.ParentID); err != nil {
		return feed.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

// UpdateCategory implements Client.
func (l *Local) UpdateCategory(ctx context.Context, id, title string) (feed.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return feed.Category{}, fmt.Errorf("category title is empty")
	}
	res, err := l.db.ExecContext(ctx, `UPDATE categories SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return feed.Category{}, fmt.Errorf("update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return feed.Category{}, fmt.Errorf("update category %s: %w", id, ErrNotFound)
	}
	var c feed.Category
	err = l.db.QueryRowContext(ctx,
		`SELECT id, title, parent_id FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Title, &c.ParentID)
	if err != nil {
		return feed.Category{}, fmt.Errorf("reload category: %w", err)
	}
	return c, nil
}

// DeleteCategory implements Client. Assigned feeds become uncategorized and
// child categories become roots, mirroring how a reader backend resolves
// the dangling references.
func (l *Local) DeleteCategory(ctx context.Context, id string) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete category %s: %w", id, ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE feeds SET category_id = '' WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("uncategorize feeds: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE categories SET parent_id = '' WHERE parent_id = ?`, id); err != nil {
		return fmt.Errorf("reroot children: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SaveFeed inserts or replaces a feed row. Used by seeding and tests.
func (l *Local) SaveFeed(ctx context.Context, f feed.Feed) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	var nextPoll any
	if f.NextPollAt != nil {
		nextPoll = f.NextPollAt.UTC().Format(time.RFC3339)
	}
	_, err := l.db.ExecContext(ctx, `
INSERT INTO feeds (id, title, icon, category_id, unread_count, entry_count, last_error, next_poll_at, tags)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title=excluded.title,
  icon=excluded.icon,
  category_id=excluded.category_id,
  unread_count=excluded.unread_count,
  entry_count=excluded.entry_count,
  last_error=excluded.last_error,
  next_poll_at=excluded.next_poll_at,
  tags=excluded.tags
`, f.ID, f.Title, f.Icon, f.CategoryID, f.UnreadCount, f.EntryCount, f.LastError,
		nextPoll, strings.Join(f.Tags, ","))
	if err != nil {
		return fmt.Errorf("save feed %s: %w", f.ID, err)
	}
	return nil
}

// SaveCategory inserts or replaces a category row. Used by seeding and
// tests.
func (l *Local) SaveCategory(ctx context.Context, c feed.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := l.db.ExecContext(ctx, `
INSERT INTO categories (id, title, parent_id) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET title=excluded.title, parent_id=excluded.parent_id
`, c.ID, c.Title, c.ParentID)
	if err != nil {
		return fmt.Errorf("save category %s: %w", c.ID, err)
	}
	return nil
}

// Empty reports whether the store has no feeds and no categories.
func (l *Local) Empty(ctx context.Context) (bool, error) {
	var n int
	err := l.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM feeds) + (SELECT COUNT(*) FROM categories)`).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count rows: %w", err)
	}
	return n == 0, nil
}

func (l *Local) getFeed(ctx context.Context, id string) (feed.Feed, error) {
	row := l.db.QueryRowContext(ctx, `
SELECT id, title, icon, category_id, unread_count, entry_count, last_error, next_poll_at, tags
FROM feeds WHERE id = ?
`, id)
	f, err := scanFeed(row)
	if errors.Is(err, sql.ErrNoRows) {
		return feed.Feed{}, fmt.Errorf("feed %s: %w", id, ErrNotFound)
	}
	return f, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeed(s scanner) (feed.Feed, error) {
	var f feed.Feed
	var nextPoll sql.NullString
	var tags string
	if err := s.Scan(&f.ID, &f.Title, &f.Icon, &f.CategoryID, &f.UnreadCount,
		&f.EntryCount, &f.LastError, &nextPoll, &tags); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return feed.Feed{}, err
		}
		return feed.Feed{}, fmt.Errorf("scan feed: %w", err)
	}
	if nextPoll.Valid && nextPoll.String != "" {
		when, err := time.Parse(time.RFC3339, nextPoll.String)
		if err != nil {
			return feed.Feed{}, fmt.Errorf("parse next_poll_at %q: %w", nextPoll.String, err)
		}
		f.NextPollAt = &when
	}
	if tags != "" {
		f.Tags = strings.Split(tags, ",")
	}
	return f, nil
}
