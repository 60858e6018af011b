// Package tree derives the navigation-tree projection from the flat feed
// and category collections. Everything here is pure: a Tree is rebuilt from
// snapshots on each pass and never mutated in place, so there are no back
// pointers to keep consistent.
package tree

import (
	"sort"
	"strings"

	"feedtray/internal/domain/feed"
)

// Tree is the derived projection of one feed/category snapshot: root
// categories, a parent->children index and a category->feeds index.
// Feeds referencing a nonexistent category are treated as uncategorized;
// categories referencing a nonexistent parent are treated as roots.
type Tree struct {
	categories       []feed.Category
	categoryByID     map[string]feed.Category
	childrenByParent map[string][]feed.Category
	feedsByCategory  map[string][]feed.Feed
	uncategorized    []feed.Feed
	feedByID         map[string]feed.Feed
}

// New builds the projection. Input slices are not modified; child and feed
// order follows the order of the input collections.
func New(categories []feed.Category, feeds []feed.Feed) *Tree {
	t := &Tree{
		categories:       categories,
		categoryByID:     make(map[string]feed.Category, len(categories)),
		childrenByParent: make(map[string][]feed.Category),
		feedsByCategory:  make(map[string][]feed.Feed),
		feedByID:         make(map[string]feed.Feed, len(feeds)),
	}
	for _, c := range categories {
		t.categoryByID[c.ID] = c
	}
	for _, c := range categories {
		parent := c.ParentID
		if _, ok := t.categoryByID[parent]; !ok {
			parent = ""
		}
		t.childrenByParent[parent] = append(t.childrenByParent[parent], c)
	}
	for _, f := range feeds {
		t.feedByID[f.ID] = f
		if _, ok := t.categoryByID[f.CategoryID]; f.CategoryID == "" || !ok {
			t.uncategorized = append(t.uncategorized, f)
			continue
		}
		t.feedsByCategory[f.CategoryID] = append(t.feedsByCategory[f.CategoryID], f)
	}
	return t
}

// Roots returns the root categories, including categories whose parent id
// does not resolve.
func (t *Tree) Roots() []feed.Category {
	return t.childrenByParent[""]
}

// Children returns the direct child categories of the given category.
func (t *Tree) Children(categoryID string) []feed.Category {
	if categoryID == "" {
		return nil
	}
	return t.childrenByParent[categoryID]
}

// FeedsIn returns the feeds directly assigned to the given category.
func (t *Tree) FeedsIn(categoryID string) []feed.Feed {
	if categoryID == "" {
		return nil
	}
	return t.feedsByCategory[categoryID]
}

// Uncategorized returns feeds with no (or a dangling) category reference.
func (t *Tree) Uncategorized() []feed.Feed {
	return t.uncategorized
}

// Category looks up a category by id.
func (t *Tree) Category(id string) (feed.Category, bool) {
	c, ok := t.categoryByID[id]
	return c, ok
}

// Feed looks up a feed by id.
func (t *Tree) Feed(id string) (feed.Feed, bool) {
	f, ok := t.feedByID[id]
	return f, ok
}

// RecursiveUnread sums unread counts over the category's direct feeds and
// every descendant category.
func (t *Tree) RecursiveUnread(categoryID string) int {
	return t.recursiveSum(categoryID, func(f feed.Feed) int { return f.UnreadCount })
}

// RecursiveTotal sums total entry counts over the category's direct feeds
// and every descendant category.
func (t *Tree) RecursiveTotal(categoryID string) int {
	return t.recursiveSum(categoryID, func(f feed.Feed) int { return f.EntryCount })
}

func (t *Tree) recursiveSum(categoryID string, metric func(feed.Feed) int) int {
	sum := 0
	stack := []string{categoryID}
	seen := map[string]bool{categoryID: true}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, f := range t.feedsByCategory[id] {
			sum += metric(f)
		}
		for _, child := range t.childrenByParent[id] {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			stack = append(stack, child.ID)
		}
	}
	return sum
}

// HasDescendantFeed reports whether the feed lives in the category or any
// of its descendants. Used for visual emphasis of ancestor chains only.
func (t *Tree) HasDescendantFeed(categoryID, feedID string) bool {
	f, ok := t.feedByID[feedID]
	if !ok || f.CategoryID == "" {
		return false
	}
	if _, ok := t.categoryByID[f.CategoryID]; !ok {
		return false
	}
	for _, id := range append([]string{f.CategoryID}, t.AncestorChain(f.CategoryID)...) {
		if id == categoryID {
			return true
		}
	}
	return false
}

// AncestorChain walks the parent ids from the given category up to its
// root, nearest parent first. The walk is iterative and guards against a
// malformed cyclic snapshot instead of looping.
func (t *Tree) AncestorChain(categoryID string) []string {
	var chain []string
	seen := map[string]bool{categoryID: true}
	current, ok := t.categoryByID[categoryID]
	if !ok {
		return nil
	}
	for current.ParentID != "" {
		parent, ok := t.categoryByID[current.ParentID]
		if !ok || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		chain = append(chain, parent.ID)
		current = parent
	}
	return chain
}

// SortedByTitle returns a copy of the given categories sorted
// case-insensitively by title. Callers that want insertion order simply
// skip this.
func SortedByTitle(categories []feed.Category) []feed.Category {
	out := append([]feed.Category(nil), categories...)
	sort.SliceStable(out, func(i, j int) bool {
		ti := strings.ToLower(strings.TrimSpace(out[i].Title))
		tj := strings.ToLower(strings.TrimSpace(out[j].Title))
		if ti != tj {
			return ti < tj
		}
		return out[i].Title < out[j].Title
	})
	return out
}
