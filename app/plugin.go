package app

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// Plugin is a unit of app configuration: anything that registers resources,
// systems, stages, or sub-apps through the builder surface.
type Plugin interface {
	Build(a *App) error
}

// PluginGroup bundles several plugins into one named, reorderable unit.
type PluginGroup interface {
	Build(b *PluginGroupBuilder)
}

func pluginName(p Plugin) string {
	t := reflect.TypeOf(p)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

// AddPlugin builds a single plugin against the app. A plugin failing to build
// is a fatal configuration error.
func (a *App) AddPlugin(p Plugin) *App {
	a.log.Debug().Str("plugin", pluginName(p)).Msg("adding plugin")
	if err := p.Build(a); err != nil {
		a.log.Fatal().Err(err).Msgf("failed to build plugin %s", pluginName(p))
	}
	return a
}

// AddPlugins builds every plugin in the group, in the group's declared order.
func (a *App) AddPlugins(g PluginGroup) *App {
	b := NewPluginGroupBuilder()
	g.Build(b)
	mustNot(b.Finish(a))
	return a
}

// AddPluginsWith builds the group after letting fn rearrange it: insert extra
// plugins at specific positions or disable some while keeping the rest.
func (a *App) AddPluginsWith(g PluginGroup, fn func(b *PluginGroupBuilder)) *App {
	b := NewPluginGroupBuilder()
	g.Build(b)
	fn(b)
	mustNot(b.Finish(a))
	return a
}

type pluginEntry struct {
	plugin  Plugin
	enabled bool
}

// PluginGroupBuilder assembles an ordered list of plugins with named
// insert-before/after operations, resolved when the group is finished into an
// app. Anchors are plugin type names; referencing an absent anchor is a
// configuration error.
type PluginGroupBuilder struct {
	order   []string
	entries map[string]*pluginEntry
}

// NewPluginGroupBuilder creates an empty builder.
func NewPluginGroupBuilder() *PluginGroupBuilder {
	return &PluginGroupBuilder{entries: make(map[string]*pluginEntry)}
}

// ErrPluginNotFound is the anchor-resolution failure for AddBefore, AddAfter,
// and Disable.
var ErrPluginNotFound = eris.New("plugin not found in group")

// Add appends a plugin at the end of the group.
func (b *PluginGroupBuilder) Add(p Plugin) *PluginGroupBuilder {
	name := pluginName(p)
	if _, exists := b.entries[name]; !exists {
		b.order = append(b.order, name)
	}
	b.entries[name] = &pluginEntry{plugin: p, enabled: true}
	return b
}

// AddBefore inserts a plugin immediately before the named anchor.
func (b *PluginGroupBuilder) AddBefore(anchor string, p Plugin) error {
	return b.insert(anchor, p, 0)
}

// AddAfter inserts a plugin immediately after the named anchor.
func (b *PluginGroupBuilder) AddAfter(anchor string, p Plugin) error {
	return b.insert(anchor, p, 1)
}

func (b *PluginGroupBuilder) insert(anchor string, p Plugin, offset int) error {
	at := -1
	for i, name := range b.order {
		if name == anchor {
			at = i + offset
			break
		}
	}
	if at < 0 {
		return eris.Wrapf(ErrPluginNotFound, "anchor %q", anchor)
	}

	name := pluginName(p)
	b.order = append(b.order, "")
	copy(b.order[at+1:], b.order[at:])
	b.order[at] = name
	b.entries[name] = &pluginEntry{plugin: p, enabled: true}
	return nil
}

// Disable keeps the named plugin in the group's order but skips building it.
func (b *PluginGroupBuilder) Disable(name string) error {
	entry, ok := b.entries[name]
	if !ok {
		return eris.Wrapf(ErrPluginNotFound, "plugin %q", name)
	}
	entry.enabled = false
	return nil
}

// Finish builds every enabled plugin against the app, in order.
func (b *PluginGroupBuilder) Finish(a *App) error {
	for _, name := range b.order {
		entry := b.entries[name]
		if !entry.enabled {
			a.log.Debug().Str("plugin", name).Msg("skipping disabled plugin")
			continue
		}
		if err := entry.plugin.Build(a); err != nil {
			return eris.Wrapf(err, "failed to build plugin %s", name)
		}
	}
	return nil
}
