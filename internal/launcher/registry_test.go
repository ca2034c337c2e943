package launcher

import (
	"testing"

	"github.com/nmelis/beacon/internal/config"
	"github.com/nmelis/beacon/internal/logger"
)

type fakeAction struct{ op string }

func (a *fakeAction) Type() string { return "fake" }

type fakePlugin struct {
	name     string
	triggers []string
	entry    *Item
	items    []*Item

	lastQuery string
	handled   []ActionData
	cleanedUp bool
	populates int
}

func (p *fakePlugin) Name() string       { return p.name }
func (p *fakePlugin) Triggers() []string { return p.triggers }
func (p *fakePlugin) Entry() *Item       { return p.entry }

func (p *fakePlugin) Populate(query string) []*Item {
	p.lastQuery = query
	p.populates++
	return p.items
}

func (p *fakePlugin) HandleAction(data ActionData) error {
	p.handled = append(p.handled, data)
	return nil
}

func (p *fakePlugin) Cleanup() { p.cleanedUp = true }

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	cfg := config.DefaultConfig
	cfg.ConfigDir = t.TempDir()
	return NewRegistry(&cfg, logger.Discard())
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	reg := newTestRegistry(t)

	if err := reg.Register(&fakePlugin{name: "one"}); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}
	if err := reg.Register(&fakePlugin{name: "one"}); err == nil {
		t.Error("Expected duplicate registration to fail")
	}
}

func TestFindPluginForInput(t *testing.T) {
	reg := newTestRegistry(t)
	p := &fakePlugin{name: "wifi", triggers: []string{"wifi", "wlan"}}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	tests := []struct {
		input     string
		wantFound bool
		wantQuery string
	}{
		{"wifi home", true, "home"},
		{"wifi: home net", true, "home net"},
		{"wlan", true, ""},
		{"  wifi   spaced ", true, "spaced"},
		{"wifiextra", false, ""},
		{"nope query", false, ""},
		{"", false, ""},
	}

	for _, tt := range tests {
		got, query := reg.FindPluginForInput(tt.input)
		if (got != nil) != tt.wantFound {
			t.Errorf("FindPluginForInput(%q) found=%v, want %v", tt.input, got != nil, tt.wantFound)
			continue
		}
		if tt.wantFound && query != tt.wantQuery {
			t.Errorf("FindPluginForInput(%q) query=%q, want %q", tt.input, query, tt.wantQuery)
		}
	}
}

func TestSearchTriggerRoutesToPlugin(t *testing.T) {
	reg := newTestRegistry(t)
	p := &fakePlugin{
		name:     "wifi",
		triggers: []string{"wifi"},
		items: []*Item{
			{Title: "HomeNet", Subtitle: "80%"},
			{Title: "HomeNet", Subtitle: "80%"},
			{Title: "CoffeeShop", Subtitle: "40%"},
		},
	}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	items := reg.Search("wifi home")
	if p.lastQuery != "home" {
		t.Errorf("Expected query %q routed, got %q", "home", p.lastQuery)
	}
	if len(items) != 2 {
		t.Errorf("Expected duplicates collapsed, got %d items", len(items))
	}
}

func TestSearchGeneralUsesEntries(t *testing.T) {
	reg := newTestRegistry(t)
	p := &fakePlugin{
		name:  "wifi",
		entry: &Item{Title: "Wi-Fi Networks"},
	}
	q := &fakePlugin{
		name:  "hidden",
		entry: nil,
	}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}
	if err := reg.Register(q); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	items := reg.Search("")
	if len(items) != 1 || items[0].Title != "Wi-Fi Networks" {
		t.Fatalf("Expected only the wifi entry, got %d items", len(items))
	}
	if p.populates != 0 {
		t.Error("Expected general search not to call Populate")
	}

	items = reg.Search("networks")
	if len(items) != 1 {
		t.Errorf("Expected fuzzy match on entry title, got %d items", len(items))
	}
}

func TestSearchCapsResults(t *testing.T) {
	cfg := config.DefaultConfig
	cfg.ConfigDir = t.TempDir()
	cfg.Launcher.MaxResults = 2
	reg := NewRegistry(&cfg, logger.Discard())

	p := &fakePlugin{
		name:     "many",
		triggers: []string{"many"},
		items: []*Item{
			{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"},
		},
	}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	if items := reg.Search("many "); len(items) != 2 {
		t.Errorf("Expected results capped at 2, got %d", len(items))
	}
}

func TestExecuteRoutesToPlugin(t *testing.T) {
	reg := newTestRegistry(t)
	p := &fakePlugin{name: "fake"}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	item := &Item{Title: "do it", Action: &fakeAction{op: "go"}, Plugin: p}
	if err := reg.Execute(item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(p.handled) != 1 {
		t.Fatalf("Expected action routed to plugin, got %d", len(p.handled))
	}
}

func TestExecuteNilAction(t *testing.T) {
	reg := newTestRegistry(t)

	if err := reg.Execute(&Item{Title: "inert"}); err == nil {
		t.Error("Expected error for item without action")
	}
	if err := reg.Execute(nil); err == nil {
		t.Error("Expected error for nil item")
	}
}

func TestCleanup(t *testing.T) {
	reg := newTestRegistry(t)
	p := &fakePlugin{name: "fake", triggers: []string{"f"}}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	reg.Cleanup()
	if !p.cleanedUp {
		t.Error("Expected plugin cleanup to run")
	}
	if got, _ := reg.FindPluginForInput("f x"); got != nil {
		t.Error("Expected triggers dropped after cleanup")
	}
}
