// Package launcher provides the plugin registry and the built-in plugins:
// each plugin adapts one external collaborator (nmcli, bluetoothctl, ps,
// a Firefox bookmarks database, the music library) into searchable items
// with actions.
package launcher

import "fmt"

// Item is a single result row: a title, an optional subtitle, and the
// action to run when the row is activated.
type Item struct {
	Title    string
	Subtitle string
	Action   ActionData
	Plugin   Plugin
}

// Key identifies an item for frecency tracking and deduplication.
func (i *Item) Key() string {
	name := ""
	if i.Plugin != nil {
		name = i.Plugin.Name()
	}
	return name + "|" + i.Title
}

// ActionData describes what activating an item should do. Plugins define
// their own types; the registry executes ShellActions itself and routes
// everything else back to the owning plugin.
type ActionData interface {
	Type() string
}

// ShellAction runs a detached shell command.
type ShellAction struct {
	Command string
}

func (a *ShellAction) Type() string { return "shell" }

// NewShellAction creates a ShellAction.
func NewShellAction(command string) *ShellAction {
	return &ShellAction{Command: command}
}

// SetQueryAction asks the UI to replace the search text, typically to
// drop into a plugin's trigger view from the general palette.
type SetQueryAction struct {
	Query string
}

func (a *SetQueryAction) Type() string { return "set_query" }

// Plugin is the interface all launcher plugins implement.
type Plugin interface {
	// Name is the unique plugin name.
	Name() string
	// Triggers are the prefixes that route input to this plugin
	// ("wifi query" or "wifi: query").
	Triggers() []string
	// Entry is the plugin's row in the general palette, or nil to stay
	// out of it. Entries must be cheap: no exec, no I/O.
	Entry() *Item
	// Populate returns items for a trigger-routed query, already
	// stripped of its trigger.
	Populate(query string) []*Item
	// HandleAction executes a non-shell action produced by this plugin.
	HandleAction(data ActionData) error
	// Cleanup releases plugin resources.
	Cleanup()
}

// ErrUnhandledAction is returned by plugins for action types they do not
// own.
func ErrUnhandledAction(data ActionData) error {
	return fmt.Errorf("unhandled action type %q", data.Type())
}
