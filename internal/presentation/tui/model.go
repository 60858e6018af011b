package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"feedtray/internal/application/settings"
	"feedtray/internal/domain/tree"
	"feedtray/internal/infrastructure/api"
	"feedtray/internal/presentation/tui/state"
	"feedtray/internal/presentation/tui/update"
	"feedtray/internal/presentation/tui/view"
)

// Model represents the main application state.
type Model struct {
	settings  settings.Settings
	client    api.Client
	states    state.StateStore
	callbacks update.Callbacks
	state     *state.ModelState
}

// NewModel creates a new application model. states may be nil, in which case
// expansion state lives only for the session.
func NewModel(cfg settings.Settings, client api.Client, states state.StateStore, callbacks update.Callbacks) *Model {
	st := newModelState(cfg)
	st.Expansion.Restore(context.Background(), states)
	return &Model{
		settings:  cfg,
		client:    client,
		states:    states,
		callbacks: callbacks,
		state:     st,
	}
}

// Init starts the spinner and loads both collections.
func (m *Model) Init() tea.Cmd {
	m.state.Loading = true
	return tea.Batch(m.state.Spinner.Tick, update.LoadCollectionsCmd(m.client))
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		spinning := m.state.Loading || m.state.RefreshingFeedID != ""
		cmd := update.HandleKeyMsg(m.state, m.deps(), msg)
		// Restart the tick chain when this key put an async operation in
		// flight; the chain stops whenever nothing is spinning.
		if !spinning && (m.state.Loading || m.state.RefreshingFeedID != "") {
			cmd = tea.Batch(cmd, m.state.Spinner.Tick)
		}
		return m, cmd
	case tea.MouseMsg:
		return m, update.HandleMouse(m.state, m.deps(), msg)
	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		update.RebuildRows(m.state)
	case update.CollectionsLoadedMsg:
		update.HandleCollectionsLoaded(m.state, m.deps(), msg)
	case update.FeedReparentedMsg:
		update.HandleFeedReparented(m.state, m.deps(), msg)
	case update.FeedRefreshedMsg:
		update.HandleFeedRefreshed(m.state, m.deps(), msg)
	case update.FeedRenamedMsg:
		update.HandleFeedRenamed(m.state, m.deps(), msg)
	case update.FeedDeletedMsg:
		update.HandleFeedDeleted(m.state, m.deps(), msg)
	case update.CategoryCreatedMsg:
		update.HandleCategoryCreated(m.state, m.deps(), msg)
	case update.CategoryRenamedMsg:
		update.HandleCategoryRenamed(m.state, m.deps(), msg)
	case update.CategoryDeletedMsg:
		update.HandleCategoryDeleted(m.state, m.deps(), msg)
	case update.BulkUnsubscribeMsg:
		update.HandleBulkUnsubscribe(m.state, m.deps(), msg)
	case update.TrackFeedMsg:
		update.HandleTrackFeed(m.state, m.deps(), msg.FeedID)
	}

	// The detail pane shows the spinner during a single-feed refresh too,
	// so keep ticking while one is in flight.
	if m.state.Loading || m.state.RefreshingFeedID != "" {
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the application view.
func (m *Model) View() string {
	return view.Render(m.buildProps())
}

func (m *Model) deps() update.Deps {
	return update.Deps{
		Client:    m.client,
		States:    m.states,
		Callbacks: m.callbacks,
	}
}

func newModelState(cfg settings.Settings) *state.ModelState {
	return &state.ModelState{
		Session:   state.TreeView,
		Keys:      state.NewKeyMap(cfg.KeyMap),
		Help:      help.New(),
		Spinner:   newSpinner(),
		TextInput: newTextInput(),
		Expansion: state.NewExpansion(),
		SmartFolders: tree.BuiltinSmartFolders(
			cfg.SmartFolders.HighVolumeEntries,
			cfg.SmartFolders.BacklogUnread,
		),
	}
}

func newTextInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 120
	ti.Width = 36
	return ti
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return s
}
