// Command feedtray runs the terminal feed subscription tree.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"feedtray/internal/domain/feed"
	"feedtray/internal/infrastructure/api"
	"feedtray/internal/infrastructure/config"
	"feedtray/internal/infrastructure/statestore"
	"feedtray/internal/presentation/tui"
	"feedtray/internal/presentation/tui/state"
	"feedtray/internal/presentation/tui/update"
)

var cli struct {
	Config    string `help:"Config file path." type:"path"`
	DataFile  string `help:"Feed database path (overrides config)." type:"path"`
	StateFile string `help:"UI state database path (overrides config)." type:"path"`
	Seed      bool   `help:"Seed an empty feed database with sample subscriptions."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("feedtray"),
		kong.Description("A feed and category navigation tree for the terminal."),
	)
	kctx.FatalIfErrorf(run())
}

func run() error {
	store, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cli.DataFile != "" {
		store.Settings.DataFile = cli.DataFile
	}
	if cli.StateFile != "" {
		store.Settings.StateFile = cli.StateFile
	}

	ctx := context.Background()

	local, err := api.OpenLocal(store.Settings.DataFile)
	if err != nil {
		return fmt.Errorf("open feed database: %w", err)
	}
	defer func() { _ = local.Close() }()
	if err := local.Init(ctx); err != nil {
		return fmt.Errorf("init feed database: %w", err)
	}
	if cli.Seed {
		if err := seedIfEmpty(ctx, local); err != nil {
			return fmt.Errorf("seed feed database: %w", err)
		}
	}

	// The state store is a best-effort cache: when it cannot be opened the
	// tree runs with session-only expansion state.
	var states state.StateStore
	if s, err := statestore.Open(store.Settings.StateFile); err == nil {
		if err := s.Init(ctx); err == nil {
			states = s
			defer func() { _ = s.Close() }()
		} else {
			_ = s.Close()
		}
	}

	model := tui.NewModel(store.Settings, local, states, update.Callbacks{})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "feedtray: %v\n", err)
		return err
	}
	return nil
}

// seedIfEmpty loads a small sample forest so the tree has something to show
// on a fresh install.
func seedIfEmpty(ctx context.Context, local *api.Local) error {
	empty, err := local.Empty(ctx)
	if err != nil || !empty {
		return err
	}

	categories := []feed.Category{
		{ID: "news", Title: "News"},
		{ID: "world", Title: "World", ParentID: "news"},
		{ID: "tech", Title: "Tech"},
	}
	nextPoll := time.Now().Add(30 * time.Minute)
	feeds := []feed.Feed{
		{ID: "bbc", Title: "BBC World", CategoryID: "world", UnreadCount: 12, EntryCount: 240, Tags: []string{"news"}},
		{ID: "hn", Title: "Hacker News", CategoryID: "tech", UnreadCount: 57, EntryCount: 480, Tags: []string{"tech"}, NextPollAt: &nextPoll},
		{ID: "lobsters", Title: "Lobsters", CategoryID: "tech", UnreadCount: 3, EntryCount: 96, Tags: []string{"tech"}},
		{ID: "quiet", Title: "Quiet Blog", CategoryID: "news", UnreadCount: 0, EntryCount: 0},
		{ID: "broken", Title: "Broken Feed", LastError: "connection timed out"},
		{ID: "legacy", Title: "Legacy Feed", LastError: "unsupported feed format"},
	}

	for _, c := range categories {
		if err := local.SaveCategory(ctx, c); err != nil {
			return err
		}
	}
	for _, f := range feeds {
		if err := local.SaveFeed(ctx, f); err != nil {
			return err
		}
	}
	return nil
}
