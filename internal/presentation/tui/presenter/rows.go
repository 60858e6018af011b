// Package presenter builds view models for the TUI. BuildRows flattens the
// category forest, the virtual views and the error/smart/tag folders into
// the visible row list; it is pure and rebuilt on every pass.
package presenter

import (
	"github.com/sahilm/fuzzy"

	"feedtray/internal/domain/feed"
	"feedtray/internal/domain/tree"
)

// RowKind discriminates the visible row types.
type RowKind int

const (
	RowSection RowKind = iota
	RowVirtual
	RowErrorsHeader
	RowErrorGroup
	RowSmartFolder
	RowTagsHeader
	RowTag
	RowUncategorized
	RowCategory
	RowFeed
)

// Row is one visible line of the navigation tree.
type Row struct {
	Kind       RowKind
	Label      string
	Icon       string
	Depth      int
	Count      int
	HasCount   bool
	Expandable bool
	Expanded   bool

	FeedID     string
	CategoryID string
	VirtualKey tree.VirtualFeedKey
	ErrorKind  tree.ErrorKind
	Tag        string
	SmartID    string

	// Emphasis marks ancestor categories of the selected feed.
	Emphasis bool
	// Faulty marks feeds whose last poll failed.
	Faulty bool
}

// Expansion is the read side of the expansion state the presenter needs.
type Expansion interface {
	IsExpanded(categoryID string) bool
	ErrorsOpen() bool
	ErrorKindOpen(kind tree.ErrorKind) bool
	SmartOpen(id string) bool
	TagsOpen() bool
}

// UncategorizedFolderID is the smart-folder expansion slot of the
// "Uncategorized" pseudo-folder.
const UncategorizedFolderID = "uncategorized"

// Input bundles everything BuildRows reads.
type Input struct {
	Tree           *tree.Tree
	Feeds          []feed.Feed
	Expansion      Expansion
	Mode           tree.CountMode
	SmartFolders   []tree.SmartFolder
	TagCounts      map[string]int
	VirtualCounts  map[tree.VirtualFeedKey]int
	SelectedFeedID string
	Filter         string
}

// BuildRows produces the visible rows. With a non-empty filter it renders
// the flat fuzzy-matched feed list instead of the tree.
func BuildRows(in Input) []Row {
	if in.Filter != "" {
		return filterRows(in)
	}

	rows := make([]Row, 0, len(in.Feeds)+16)
	rows = appendVirtualRows(rows, in)
	rows = appendErrorRows(rows, in)
	rows = appendSmartFolderRows(rows, in)
	rows = appendTagRows(rows, in)
	rows = appendForestRows(rows, in)
	return rows
}

func appendVirtualRows(rows []Row, in Input) []Row {
	for _, v := range tree.VirtualFeeds(in.VirtualCounts) {
		rows = append(rows, Row{
			Kind:       RowVirtual,
			Label:      v.Title,
			Icon:       v.Icon,
			Count:      v.Count,
			HasCount:   true,
			VirtualKey: v.Key,
		})
	}
	return rows
}

func appendErrorRows(rows []Row, in Input) []Row {
	groups := tree.GroupErrors(in.Feeds)
	if len(groups) == 0 {
		return rows
	}
	failing := 0
	for _, g := range groups {
		failing += len(g.Feeds)
	}
	open := in.Expansion.ErrorsOpen()
	rows = append(rows, Row{
		Kind:       RowErrorsHeader,
		Label:      "Errors",
		Icon:       "⚠",
		Count:      failing,
		HasCount:   true,
		Expandable: true,
		Expanded:   open,
	})
	if !open {
		return rows
	}
	for _, g := range groups {
		kindOpen := in.Expansion.ErrorKindOpen(g.Kind)
		rows = append(rows, Row{
			Kind:       RowErrorGroup,
			Label:      g.Kind.Label(),
			Depth:      1,
			Count:      len(g.Feeds),
			HasCount:   true,
			Expandable: true,
			Expanded:   kindOpen,
			ErrorKind:  g.Kind,
		})
		if !kindOpen {
			continue
		}
		for _, f := range g.Feeds {
			rows = append(rows, feedRow(f, 2, in))
		}
	}
	return rows
}

func appendSmartFolderRows(rows []Row, in Input) []Row {
	for _, sf := range in.SmartFolders {
		members := sf.Feeds(in.Feeds)
		if len(members) == 0 {
			continue
		}
		count := 0
		for _, f := range members {
			count += in.Mode.Count(f)
		}
		open := in.Expansion.SmartOpen(sf.ID)
		rows = append(rows, Row{
			Kind:       RowSmartFolder,
			Label:      sf.Title,
			Icon:       sf.Icon,
			Count:      count,
			HasCount:   true,
			Expandable: true,
			Expanded:   open,
			SmartID:    sf.ID,
		})
		if !open {
			continue
		}
		for _, f := range members {
			rows = append(rows, feedRow(f, 1, in))
		}
	}
	return rows
}

func appendTagRows(rows []Row, in Input) []Row {
	folders := tree.TagFolders(in.Feeds, in.TagCounts)
	if len(folders) == 0 {
		return rows
	}
	open := in.Expansion.TagsOpen()
	rows = append(rows, Row{
		Kind:       RowTagsHeader,
		Label:      "Tags",
		Icon:       "#",
		Count:      len(folders),
		HasCount:   true,
		Expandable: true,
		Expanded:   open,
	})
	if !open {
		return rows
	}
	for _, folder := range folders {
		rows = append(rows, Row{
			Kind:     RowTag,
			Label:    folder.Tag,
			Depth:    1,
			Count:    folder.Count,
			HasCount: true,
			Tag:      folder.Tag,
		})
	}
	return rows
}

func appendForestRows(rows []Row, in Input) []Row {
	roots := tree.SortedByTitle(in.Tree.Roots())
	uncategorized := in.Tree.Uncategorized()
	if len(roots) == 0 && len(uncategorized) == 0 {
		return rows
	}
	rows = append(rows, Row{Kind: RowSection, Label: "Feeds"})
	for _, root := range roots {
		rows = appendCategoryRows(rows, in, root, 0)
	}
	if len(uncategorized) > 0 {
		count := 0
		for _, f := range uncategorized {
			count += in.Mode.Count(f)
		}
		open := in.Expansion.SmartOpen(UncategorizedFolderID)
		rows = append(rows, Row{
			Kind:       RowUncategorized,
			Label:      "Uncategorized",
			Icon:       "…",
			Count:      count,
			HasCount:   true,
			Expandable: true,
			Expanded:   open,
			SmartID:    UncategorizedFolderID,
		})
		if open {
			for _, f := range uncategorized {
				rows = append(rows, feedRow(f, 1, in))
			}
		}
	}
	return rows
}

func appendCategoryRows(rows []Row, in Input, c feed.Category, depth int) []Row {
	count := in.Tree.RecursiveUnread(c.ID)
	if in.Mode == tree.CountTotal {
		count = in.Tree.RecursiveTotal(c.ID)
	}
	expanded := in.Expansion.IsExpanded(c.ID)
	rows = append(rows, Row{
		Kind:       RowCategory,
		Label:      c.Title,
		Depth:      depth,
		Count:      count,
		HasCount:   true,
		Expandable: true,
		Expanded:   expanded,
		CategoryID: c.ID,
		Emphasis:   in.SelectedFeedID != "" && in.Tree.HasDescendantFeed(c.ID, in.SelectedFeedID),
	})
	if !expanded {
		return rows
	}
	for _, child := range tree.SortedByTitle(in.Tree.Children(c.ID)) {
		rows = appendCategoryRows(rows, in, child, depth+1)
	}
	for _, f := range in.Tree.FeedsIn(c.ID) {
		rows = append(rows, feedRow(f, depth+1, in))
	}
	return rows
}

func feedRow(f feed.Feed, depth int, in Input) Row {
	return Row{
		Kind:     RowFeed,
		Label:    f.DisplayTitle(),
		Icon:     f.Icon,
		Depth:    depth,
		Count:    in.Mode.Count(f),
		HasCount: true,
		FeedID:   f.ID,
		Faulty:   f.HasError(),
	}
}

type feedSource []feed.Feed

func (s feedSource) String(i int) string { return s[i].DisplayTitle() }
func (s feedSource) Len() int            { return len(s) }

func filterRows(in Input) []Row {
	matches := fuzzy.FindFrom(in.Filter, feedSource(in.Feeds))
	rows := make([]Row, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, feedRow(in.Feeds[m.Index], 0, in))
	}
	return rows
}

// FeedRowIndex returns the index of the first row showing the feed, or -1.
func FeedRowIndex(rows []Row, feedID string) int {
	if feedID == "" {
		return -1
	}
	for i, row := range rows {
		if row.Kind == RowFeed && row.FeedID == feedID {
			return i
		}
	}
	return -1
}

// DropTarget resolves the row at idx to a reparent target. Category rows
// target themselves; the Uncategorized folder targets the empty category.
// Everything else is not a drop target.
func DropTarget(rows []Row, idx int) (string, bool) {
	if idx < 0 || idx >= len(rows) {
		return "", false
	}
	switch rows[idx].Kind {
	case RowCategory:
		return rows[idx].CategoryID, true
	case RowUncategorized:
		return "", true
	default:
		return "", false
	}
}
