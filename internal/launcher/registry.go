package launcher

import (
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"syscall"

	"github.com/sahilm/fuzzy"

	"github.com/nmelis/beacon/internal/config"
	"github.com/nmelis/beacon/internal/logger"
)

// Registry routes search input to plugins and executes the resulting
// items. Input of the form "trigger query" or "trigger: query" goes to
// the plugin owning the trigger; everything else is a general palette
// search across all plugins' entry items.
type Registry struct {
	plugins  map[string]Plugin
	triggers map[string]Plugin
	order    []string
	cfg      *config.Config
	cache    *SearchCache
	frecency *Frecency
	logger   *logger.Logger
}

func NewRegistry(cfg *config.Config, lg *logger.Logger) *Registry {
	cache, err := NewSearchCache(cfg.Launcher.SearchCacheSize)
	if err != nil {
		lg.Warnf("registry: failed to create search cache: %v", err)
		cache = nil
	}

	frecency, err := NewFrecency(cfg.ConfigDir, lg)
	if err != nil {
		lg.Warnf("registry: failed to create frecency tracker: %v", err)
	}

	return &Registry{
		plugins:  make(map[string]Plugin),
		triggers: make(map[string]Plugin),
		cfg:      cfg,
		cache:    cache,
		frecency: frecency,
		logger:   lg,
	}
}

// Register adds a plugin and its triggers. Duplicate names are an error.
func (r *Registry) Register(p Plugin) error {
	name := p.Name()
	if _, exists := r.plugins[name]; exists {
		return fmt.Errorf("plugin %q already registered", name)
	}

	r.plugins[name] = p
	r.order = append(r.order, name)
	for _, trigger := range p.Triggers() {
		r.triggers[trigger] = p
		r.logger.Debugf("registry: trigger %s -> %s", trigger, name)
	}
	return nil
}

// FindPluginForInput splits input into a trigger-owning plugin and the
// remaining query. Both "wifi query" and "wifi: query" forms route.
func (r *Registry) FindPluginForInput(input string) (Plugin, string) {
	input = strings.TrimSpace(input)

	if idx := strings.Index(input, ":"); idx >= 0 {
		if p, ok := r.triggers[input[:idx]]; ok {
			return p, strings.TrimSpace(input[idx+1:])
		}
	}

	head, rest, found := strings.Cut(input, " ")
	if p, ok := r.triggers[head]; ok {
		if !found {
			return p, ""
		}
		return p, strings.TrimSpace(rest)
	}

	return nil, ""
}

// Search resolves input to a list of items, capped at the configured
// maximum. Trigger searches hit the owning plugin directly; general
// searches go through the LRU cache and are ranked by fuzzy score and
// frecency.
func (r *Registry) Search(input string) []*Item {
	if p, query := r.FindPluginForInput(input); p != nil {
		return r.cap(dedupe(p.Populate(query)))
	}

	query := strings.TrimSpace(input)
	if r.cache != nil {
		if cached, found := r.cache.Get(query); found {
			return cached
		}
	}

	var items []*Item
	for _, name := range r.order {
		if entry := r.plugins[name].Entry(); entry != nil {
			items = append(items, entry)
		}
	}
	items = dedupe(items)

	if query != "" {
		items = r.match(query, items)
	}
	r.rank(items)
	items = r.cap(items)

	if r.cache != nil {
		r.cache.Put(query, items)
	}
	return items
}

// match keeps items whose title matches the query, fuzzy or substring
// depending on configuration.
func (r *Registry) match(query string, items []*Item) []*Item {
	if !r.cfg.Launcher.FuzzySearch {
		q := strings.ToLower(query)
		var kept []*Item
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Title), q) {
				kept = append(kept, item)
			}
		}
		return kept
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}

	matches := fuzzy.Find(query, titles)
	kept := make([]*Item, 0, len(matches))
	for _, m := range matches {
		kept = append(kept, items[m.Index])
	}
	return kept
}

// rank orders items by frecency score, most-launched first, preserving
// relative order for unlaunched items.
func (r *Registry) rank(items []*Item) {
	if r.frecency == nil {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		return r.frecency.Score(items[i].Key()) > r.frecency.Score(items[j].Key())
	})
}

func (r *Registry) cap(items []*Item) []*Item {
	if max := r.cfg.Launcher.MaxResults; len(items) > max {
		return items[:max]
	}
	return items
}

// Execute runs an item's action: shell actions detach via setsid, every
// other action type goes back to the owning plugin. The launch is
// recorded for frecency ranking.
func (r *Registry) Execute(item *Item) error {
	if item == nil || item.Action == nil {
		return fmt.Errorf("nothing to execute")
	}

	if r.frecency != nil {
		r.frecency.RecordLaunch(item.Key())
	}

	if shell, ok := item.Action.(*ShellAction); ok {
		parts := strings.Fields(shell.Command)
		if len(parts) == 0 {
			return fmt.Errorf("empty command")
		}

		cmd := exec.Command(parts[0], parts[1:]...)
		cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("failed to start command: %w", err)
		}
		return nil
	}

	if item.Plugin == nil {
		return fmt.Errorf("no plugin for action type %q", item.Action.Type())
	}
	return item.Plugin.HandleAction(item.Action)
}

// Invalidate expires cached general searches, e.g. after a plugin
// refreshed its underlying data.
func (r *Registry) Invalidate() {
	if r.cache != nil {
		r.cache.Invalidate()
	}
}

// Cleanup shuts down all plugins.
func (r *Registry) Cleanup() {
	for name, p := range r.plugins {
		p.Cleanup()
		r.logger.Debugf("registry: cleaned up %s", name)
	}
	r.plugins = make(map[string]Plugin)
	r.triggers = make(map[string]Plugin)
	r.order = nil
}

// dedupe removes items sharing a title and subtitle, keeping first wins.
func dedupe(items []*Item) []*Item {
	seen := make(map[string]bool, len(items))
	result := make([]*Item, 0, len(items))
	for _, item := range items {
		key := item.Title + "|" + item.Subtitle
		if !seen[key] {
			seen[key] = true
			result = append(result, item)
		}
	}
	return result
}
