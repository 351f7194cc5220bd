package plugins

import (
	"fmt"
	"sort"

	"github.com/krema-build/krema/internal/errors"
)

// Load resolves dependency order across every registered (builtin +
// discovered) plugin and runs each one's Init in that order. A dependency
// cycle yields kind=PluginCycle; a dependency naming a plugin that was
// never registered yields kind=PluginLoadFailed; an Init error aborts the
// remainder of loading and is returned wrapped as kind=PluginLoadFailed
// unless it already carries a structured kind (spec §4.9, §7: "Plugin
// initialization failures abort startup").
func (l *Loader) Load() ([]Manifest, error) {
	factories, err := l.merged()
	if err != nil {
		return nil, err
	}

	handlers := make(map[string]Handler, len(factories))
	manifestOf := make(map[string]Manifest, len(factories))
	for name, factory := range factories {
		h := factory()
		m := h.Manifest()
		if m.Name != name {
			return nil, errors.E(errors.PluginLoadFailed, fmt.Sprintf("plugin registered as %q declares manifest name %q", name, m.Name))
		}
		handlers[name] = h
		manifestOf[name] = m
	}

	order, err := topoSort(manifestOf)
	if err != nil {
		return nil, err
	}

	loaded := make([]Manifest, 0, len(order))
	for _, name := range order {
		h := handlers[name]
		if err := h.Init(l.ctx); err != nil {
			if _, ok := err.(*errors.Error); ok {
				return nil, err
			}
			return nil, errors.Wrap(errors.PluginLoadFailed, "init "+name, err)
		}
		loaded = append(loaded, manifestOf[name])
	}
	return loaded, nil
}

// topoSort orders plugins so every dependency loads before its dependent,
// using recursive depth-first search that marks each plugin visiting or
// visited, so reaching a plugin still marked visiting reports a cycle.
func topoSort(manifests map[string]Manifest) ([]string, error) {
	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[string]int, len(manifests))
	order := make([]string, 0, len(manifests))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			return errors.E(errors.PluginCycle, fmt.Sprintf("%s -> %s", joinPath(path), name))
		}
		m, ok := manifests[name]
		if !ok {
			return errors.E(errors.PluginLoadFailed, "unknown plugin dependency: "+name)
		}
		state[name] = visiting
		for _, dep := range m.Dependencies {
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = visited
		order = append(order, name)
		return nil
	}

	// Deterministic iteration order so a cycle among N>2 plugins always
	// reports the same path regardless of map iteration order.
	names := make([]string, 0, len(manifests))
	for name := range manifests {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func joinPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += " -> "
		}
		out += p
	}
	return out
}
