package tree

import (
	"sort"
	"strings"

	"feedtray/internal/domain/feed"
)

// CountMode selects which metric every count in the tree displays.
type CountMode int

const (
	// CountUnread shows unread counts (default).
	CountUnread CountMode = iota
	// CountTotal shows total entry counts.
	CountTotal
)

// Count returns the feed's count under the given mode.
func (m CountMode) Count(f feed.Feed) int {
	if m == CountTotal {
		return f.EntryCount
	}
	return f.UnreadCount
}

// ErrorKind classifies a feed's last poll error. The declaration order is
// the fixed display priority of the error groups.
type ErrorKind int

const (
	ErrorNetwork ErrorKind = iota
	ErrorServer
	ErrorAuth
	ErrorParse
	ErrorOther
)

// ErrorKinds lists every kind in display priority order.
var ErrorKinds = []ErrorKind{ErrorNetwork, ErrorServer, ErrorAuth, ErrorParse, ErrorOther}

// Label returns the human-readable group name for the kind.
func (k ErrorKind) Label() string {
	switch k {
	case ErrorNetwork:
		return "Network errors"
	case ErrorServer:
		return "Server errors"
	case ErrorAuth:
		return "Authentication errors"
	case ErrorParse:
		return "Parsing errors"
	default:
		return "Other errors"
	}
}

// ClassifyError maps an error string to exactly one ErrorKind. The match is
// substring-based over the lowercased message; the first matching kind in
// priority order wins.
func ClassifyError(message string) ErrorKind {
	msg := strings.ToLower(message)
	switch {
	case containsAny(msg, "timeout", "timed out", "connection refused", "no such host",
		"network", "dns", "unreachable", "connection reset", "tls"):
		return ErrorNetwork
	case containsAny(msg, "500", "502", "503", "504", "internal server error",
		"bad gateway", "service unavailable", "too many requests", "429"):
		return ErrorServer
	case containsAny(msg, "401", "403", "unauthorized", "forbidden", "authentication",
		"credentials"):
		return ErrorAuth
	case containsAny(msg, "parse", "parsing", "xml", "invalid feed", "malformed",
		"unsupported feed format", "encoding"):
		return ErrorParse
	default:
		return ErrorOther
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ErrorGroup is one error-classification bucket with its member feeds in
// natural (input) order.
type ErrorGroup struct {
	Kind  ErrorKind
	Feeds []feed.Feed
}

// GroupErrors buckets every failing feed into exactly one group and returns
// the non-empty groups in kind priority order.
func GroupErrors(feeds []feed.Feed) []ErrorGroup {
	byKind := make(map[ErrorKind][]feed.Feed)
	for _, f := range feeds {
		if !f.HasError() {
			continue
		}
		kind := ClassifyError(f.LastError)
		byKind[kind] = append(byKind[kind], f)
	}
	groups := make([]ErrorGroup, 0, len(byKind))
	for _, kind := range ErrorKinds {
		if members := byKind[kind]; len(members) > 0 {
			groups = append(groups, ErrorGroup{Kind: kind, Feeds: members})
		}
	}
	return groups
}

// SmartFolder is a feed-list-mode virtual folder defined by a predicate
// over the feed collection. Folders with no matches are not rendered.
type SmartFolder struct {
	ID    string
	Title string
	Icon  string
	Match func(feed.Feed) bool
}

// Feeds returns the matching feeds in natural order.
func (s SmartFolder) Feeds(feeds []feed.Feed) []feed.Feed {
	var out []feed.Feed
	for _, f := range feeds {
		if s.Match != nil && s.Match(f) {
			out = append(out, f)
		}
	}
	return out
}

// BuiltinSmartFolders returns the default smart folders. Thresholds come
// from settings so they stay configurable.
func BuiltinSmartFolders(highVolume, backlog int) []SmartFolder {
	return []SmartFolder{
		{
			ID:    "high-volume",
			Title: "High volume",
			Icon:  "≣",
			Match: func(f feed.Feed) bool { return f.EntryCount >= highVolume },
		},
		{
			ID:    "backlog",
			Title: "Unread backlog",
			Icon:  "⧗",
			Match: func(f feed.Feed) bool { return f.UnreadCount >= backlog },
		},
		{
			ID:    "silent",
			Title: "Silent feeds",
			Icon:  "∅",
			Match: func(f feed.Feed) bool { return f.EntryCount == 0 && !f.HasError() },
		},
	}
}

// TagFolder is a tag-based virtual folder with its member feeds.
type TagFolder struct {
	Tag   string
	Count int
	Feeds []feed.Feed
}

// TagFolders derives tag folders from feed tag membership. The optional
// counts map overrides the displayed count per tag (e.g. server-supplied
// entry counts); absent entries fall back to member-feed count. Tags with
// no member feeds are dropped; folders sort alphabetically.
func TagFolders(feeds []feed.Feed, counts map[string]int) []TagFolder {
	byTag := make(map[string][]feed.Feed)
	for _, f := range feeds {
		for _, tag := range f.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			byTag[tag] = append(byTag[tag], f)
		}
	}
	folders := make([]TagFolder, 0, len(byTag))
	for tag, members := range byTag {
		count := len(members)
		if c, ok := counts[tag]; ok {
			count = c
		}
		folders = append(folders, TagFolder{Tag: tag, Count: count, Feeds: members})
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Tag < folders[j].Tag })
	return folders
}

// VirtualFeedKey identifies one of the fixed item-list virtual views.
type VirtualFeedKey string

const (
	VirtualAll       VirtualFeedKey = "all"
	VirtualFresh     VirtualFeedKey = "fresh"
	VirtualStarred   VirtualFeedKey = "starred"
	VirtualPublished VirtualFeedKey = "published"
)

// VirtualFeed is a fixed navigational view with an externally supplied
// count. "All Feeds" is always shown; the rest only when their count is
// positive.
type VirtualFeed struct {
	Key   VirtualFeedKey
	Title string
	Icon  string
	Count int
}

// VirtualFeeds assembles the item-list section from the supplied counts.
func VirtualFeeds(counts map[VirtualFeedKey]int) []VirtualFeed {
	all := []VirtualFeed{
		{Key: VirtualAll, Title: "All Feeds", Icon: "◎", Count: counts[VirtualAll]},
		{Key: VirtualFresh, Title: "Fresh", Icon: "✶", Count: counts[VirtualFresh]},
		{Key: VirtualStarred, Title: "Starred", Icon: "★", Count: counts[VirtualStarred]},
		{Key: VirtualPublished, Title: "Published", Icon: "➤", Count: counts[VirtualPublished]},
	}
	out := make([]VirtualFeed, 0, len(all))
	for _, v := range all {
		if v.Key != VirtualAll && v.Count == 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}
