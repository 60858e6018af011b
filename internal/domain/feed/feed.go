// Package feed defines the feed and category entities of the navigation tree.
package feed

import (
	"strings"
	"time"
)

// Feed is a subscribed content source, a leaf in the navigation tree.
// The collection is owned by the collaborator API; the tree holds a
// read-mostly snapshot and replaces entries only with server-confirmed
// versions.
type Feed struct {
	ID          string
	Title       string
	Icon        string
	CategoryID  string // empty = uncategorized
	UnreadCount int
	EntryCount  int
	LastError   string // empty = healthy
	NextPollAt  *time.Time
	Tags        []string
}

// DisplayTitle returns the feed title, falling back when it is blank.
func (f Feed) DisplayTitle() string {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return "untitled feed"
	}
	return title
}

// HasError reports whether the last poll of this feed failed.
func (f Feed) HasError() bool {
	return strings.TrimSpace(f.LastError) != ""
}

// HasTag reports whether the feed carries the given tag.
func (f Feed) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Category is a user-defined, nestable grouping node. Categories form a
// forest: ParentID is empty for roots and otherwise references another
// category in the same collection.
type Category struct {
	ID       string
	Title    string
	ParentID string // empty = root
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool {
	return c.ParentID == ""
}
