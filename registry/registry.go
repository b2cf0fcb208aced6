// Package registry holds the tools a conversation can call, keyed by name.
package registry

import (
	"github.com/casualjim/toolloop/tool"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Registry maps tool names to entries. It is read-only once built and can be
// shared between goroutines.
type Registry struct {
	entries *orderedmap.OrderedMap[string, tool.Entry]
}

// Build creates a registry from entries. When two entries share a name the last one
// wins, the name keeps the position where it was first registered.
func Build(entries ...tool.Entry) *Registry {
	r := &Registry{entries: orderedmap.New[string, tool.Entry](len(entries))}
	for _, e := range entries {
		r.entries.Set(e.Name(), e)
	}
	return r
}

// Lookup finds the entry registered under name.
func (r *Registry) Lookup(name string) (tool.Entry, bool) {
	if r == nil {
		return tool.Entry{}, false
	}
	return r.entries.Get(name)
}

// Tools returns the definitions to advertise, in registry order.
func (r *Registry) Tools() []tool.Definition {
	if r == nil {
		return nil
	}
	defs := make([]tool.Definition, 0, r.entries.Len())
	for pair := r.entries.Oldest(); pair != nil; pair = pair.Next() {
		defs = append(defs, pair.Value.Definition)
	}
	return defs
}

// Names returns the registered tool names in registry order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, r.entries.Len())
	for pair := r.entries.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return r.entries.Len()
}
