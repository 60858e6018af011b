package state

import (
	"context"

	"feedtray/internal/domain/feed"
	"feedtray/internal/domain/tree"
)

// Persisted state keys. Values are JSON-encoded arrays/booleans.
const (
	KeyExpandedCategories = "sidebar.expanded_categories"
	KeyErrorsExpanded     = "sidebar.errors_expanded"
	KeyExpandedErrorKinds = "sidebar.expanded_error_kinds"
	KeyExpandedSmart      = "sidebar.expanded_smart_folders"
	KeyTagsExpanded       = "sidebar.tags_expanded"
)

// StateStore is the key-value persistence contract the expansion state
// writes through. It is a best-effort cache, never a correctness
// dependency.
type StateStore interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// Expansion tracks which categories, error groups, smart folders and the
// tags section are open. Defaults: categories all-expanded (applied on the
// first reconcile when no saved state was restored), everything else
// collapsed.
type Expansion struct {
	categories map[string]bool
	errorsOpen bool
	errorKinds map[tree.ErrorKind]bool
	smartOpen  map[string]bool
	tagsOpen   bool

	// known distinguishes "created this session, show it open" from
	// "collapsed earlier by the user, leave it closed".
	known    map[string]bool
	observed bool
	restored bool
}

// NewExpansion returns an empty expansion state.
func NewExpansion() *Expansion {
	return &Expansion{
		categories: make(map[string]bool),
		errorKinds: make(map[tree.ErrorKind]bool),
		smartOpen:  make(map[string]bool),
		known:      make(map[string]bool),
	}
}

// IsExpanded reports whether the category is open.
func (e *Expansion) IsExpanded(categoryID string) bool {
	return e.categories[categoryID]
}

// Toggle flips one category.
func (e *Expansion) Toggle(categoryID string) {
	if e.categories[categoryID] {
		delete(e.categories, categoryID)
		return
	}
	e.categories[categoryID] = true
}

// Expand force-opens one category without touching anything else. Used by
// the tracking controller and session-new reconciliation.
func (e *Expansion) Expand(categoryID string) {
	e.categories[categoryID] = true
}

// ExpandAll opens every given category, the error section and every error
// grouping.
func (e *Expansion) ExpandAll(categoryIDs []string) {
	for _, id := range categoryIDs {
		e.categories[id] = true
	}
	e.errorsOpen = true
	for _, kind := range tree.ErrorKinds {
		e.errorKinds[kind] = true
	}
}

// CollapseAll closes everything: categories, the error section, every
// error grouping, smart folders and the tags section.
func (e *Expansion) CollapseAll() {
	clear(e.categories)
	clear(e.errorKinds)
	clear(e.smartOpen)
	e.errorsOpen = false
	e.tagsOpen = false
}

// ErrorsOpen reports whether the error section is open.
func (e *Expansion) ErrorsOpen() bool { return e.errorsOpen }

// ToggleErrors flips the error section.
func (e *Expansion) ToggleErrors() { e.errorsOpen = !e.errorsOpen }

// ErrorKindOpen reports whether one error grouping is open.
func (e *Expansion) ErrorKindOpen(kind tree.ErrorKind) bool { return e.errorKinds[kind] }

// ToggleErrorKind flips one error grouping.
func (e *Expansion) ToggleErrorKind(kind tree.ErrorKind) {
	if e.errorKinds[kind] {
		delete(e.errorKinds, kind)
		return
	}
	e.errorKinds[kind] = true
}

// SmartOpen reports whether one smart folder is open.
func (e *Expansion) SmartOpen(id string) bool { return e.smartOpen[id] }

// ExpandSmart force-opens one smart folder.
func (e *Expansion) ExpandSmart(id string) {
	e.smartOpen[id] = true
}

// ToggleSmartFolder flips one smart folder.
func (e *Expansion) ToggleSmartFolder(id string) {
	if e.smartOpen[id] {
		delete(e.smartOpen, id)
		return
	}
	e.smartOpen[id] = true
}

// TagsOpen reports whether the tags section is open.
func (e *Expansion) TagsOpen() bool { return e.tagsOpen }

// ToggleTags flips the tags section.
func (e *Expansion) ToggleTags() { e.tagsOpen = !e.tagsOpen }

// ExpandedCategories returns the open category ids (order unspecified).
func (e *Expansion) ExpandedCategories() []string {
	ids := make([]string, 0, len(e.categories))
	for id := range e.categories {
		ids = append(ids, id)
	}
	return ids
}

// Reconcile aligns the expansion state with the current category
// collection. The first observation of a non-empty collection marks every
// id known without forcing expansion, so restored state is respected; on
// later changes, ids never seen this session are force-expanded and stale
// ids are pruned.
func (e *Expansion) Reconcile(categories []feed.Category) {
	if len(categories) == 0 {
		return
	}
	current := make(map[string]bool, len(categories))
	for _, c := range categories {
		current[c.ID] = true
	}

	if !e.observed {
		e.observed = true
		for id := range current {
			e.known[id] = true
			if !e.restored {
				e.categories[id] = true
			}
		}
	} else {
		for id := range current {
			if !e.known[id] {
				e.known[id] = true
				e.categories[id] = true
			}
		}
	}

	for id := range e.categories {
		if !current[id] {
			delete(e.categories, id)
		}
	}
}

// Restore seeds the expansion state from the store. Missing or corrupt
// entries fall back silently to the defaults.
func (e *Expansion) Restore(ctx context.Context, store StateStore) {
	if store == nil {
		return
	}
	var ids []string
	if found, err := store.Get(ctx, KeyExpandedCategories, &ids); err == nil && found {
		e.restored = true
		for _, id := range ids {
			e.categories[id] = true
		}
	}
	var errorsOpen bool
	if found, err := store.Get(ctx, KeyErrorsExpanded, &errorsOpen); err == nil && found {
		e.errorsOpen = errorsOpen
	}
	var kinds []int
	if found, err := store.Get(ctx, KeyExpandedErrorKinds, &kinds); err == nil && found {
		for _, k := range kinds {
			e.errorKinds[tree.ErrorKind(k)] = true
		}
	}
	var smart []string
	if found, err := store.Get(ctx, KeyExpandedSmart, &smart); err == nil && found {
		for _, id := range smart {
			e.smartOpen[id] = true
		}
	}
	var tagsOpen bool
	if found, err := store.Get(ctx, KeyTagsExpanded, &tagsOpen); err == nil && found {
		e.tagsOpen = tagsOpen
	}
}

// Persist writes the current state back to the store, best effort.
func (e *Expansion) Persist(ctx context.Context, store StateStore) {
	if store == nil {
		return
	}
	kinds := make([]int, 0, len(e.errorKinds))
	for kind, open := range e.errorKinds {
		if open {
			kinds = append(kinds, int(kind))
		}
	}
	smart := make([]string, 0, len(e.smartOpen))
	for id, open := range e.smartOpen {
		if open {
			smart = append(smart, id)
		}
	}
	_ = store.Set(ctx, KeyExpandedCategories, e.ExpandedCategories())
	_ = store.Set(ctx, KeyErrorsExpanded, e.errorsOpen)
	_ = store.Set(ctx, KeyExpandedErrorKinds, kinds)
	_ = store.Set(ctx, KeyExpandedSmart, smart)
	_ = store.Set(ctx, KeyTagsExpanded, e.tagsOpen)
}
