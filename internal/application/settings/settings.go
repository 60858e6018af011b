// Package settings defines application-level configuration data.
package settings

// KeyMapConfig defines the configuration for keybindings.
type KeyMapConfig struct {
	Up            string `yaml:"up" kong:"help='Up key',default='k'"`
	Down          string `yaml:"down" kong:"help='Down key',default='j'"`
	Open          string `yaml:"open" kong:"help='Open/select key',default='enter'"`
	Back          string `yaml:"back" kong:"help='Back key',default='esc'"`
	Quit          string `yaml:"quit" kong:"help='Quit key',default='q'"`
	ToggleExpand  string `yaml:"toggle_expand" kong:"help='Toggle expand/collapse key',default='tab'"`
	ExpandAll     string `yaml:"expand_all" kong:"help='Expand all key',default='E'"`
	CollapseAll   string `yaml:"collapse_all" kong:"help='Collapse all key',default='C'"`
	Move          string `yaml:"move" kong:"help='Grab feed for move key',default='m'"`
	Refresh       string `yaml:"refresh" kong:"help='Refresh feed key',default='r'"`
	RefreshAll    string `yaml:"refresh_all" kong:"help='Refresh all key',default='R'"`
	AddCategory   string `yaml:"add_category" kong:"help='New category key',default='n'"`
	Rename        string `yaml:"rename" kong:"help='Rename key',default='e'"`
	Delete        string `yaml:"delete" kong:"help='Delete key',default='x'"`
	Unsubscribe   string `yaml:"unsubscribe" kong:"help='Bulk unsubscribe group key',default='X'"`
	Subscribe     string `yaml:"subscribe" kong:"help='Subscribe to feed key',default='a'"`
	Settings      string `yaml:"settings" kong:"help='Open settings key',default='S'"`
	Filter        string `yaml:"filter" kong:"help='Filter feeds key',default='/'"`
	ToggleCounts  string `yaml:"toggle_counts" kong:"help='Toggle unread/total counts key',default='u'"`
	Track         string `yaml:"track" kong:"help='Jump to tracked feed key',default='t'"`
	ToggleSidebar string `yaml:"toggle_sidebar" kong:"help='Collapse sidebar key',default='b'"`
}

// ThemeConfig defines the color theme configuration.
type ThemeConfig struct {
	FeedName     string `yaml:"feed_name" kong:"help='Feed name color',default='252'"`
	CategoryName string `yaml:"category_name" kong:"help='Category name color',default='110'"`
	Count        string `yaml:"count" kong:"help='Count badge color',default='244'"`
	ErrorName    string `yaml:"error_name" kong:"help='Error group color',default='167'"`
	Selection    string `yaml:"selection" kong:"help='Selection color',default='205'"`
}

// SmartFolderConfig holds the thresholds of the built-in smart folders.
type SmartFolderConfig struct {
	HighVolumeEntries int `yaml:"high_volume_entries" kong:"help='Entry count for the high-volume folder',default='200'"`
	BacklogUnread     int `yaml:"backlog_unread" kong:"help='Unread count for the backlog folder',default='50'"`
}

// Settings represents the application configuration.
type Settings struct {
	DataFile     string            `yaml:"data_file" kong:"help='Feed database path'"`
	StateFile    string            `yaml:"state_file" kong:"help='UI state database path'"`
	KeyMap       KeyMapConfig      `yaml:"keymap" kong:"embed,prefix='keymap.'"`
	Theme        ThemeConfig       `yaml:"theme" kong:"embed,prefix='theme.'"`
	SmartFolders SmartFolderConfig `yaml:"smart_folders" kong:"embed,prefix='smart-folders.'"`
}
