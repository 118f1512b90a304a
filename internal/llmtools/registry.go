package llmtools

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// Registry holds the set of available tools keyed by stable name.
// Names are unique; registering the same name again replaces the tool.
type Registry struct {
	nameToTool map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{nameToTool: make(map[string]Tool)}
}

var nameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Register adds or replaces a tool by its stable name after validation.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return errors.New("tool must not be nil")
	}
	name := t.Name()
	if name == "" || !nameRe.MatchString(name) {
		return fmt.Errorf("invalid tool name %q: must be lowercase snake_case starting with a letter", name)
	}
	if r.nameToTool == nil {
		r.nameToTool = make(map[string]Tool)
	}
	r.nameToTool[name] = t
	return nil
}

// Get returns a tool by stable name if present.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.nameToTool[name]
	return t, ok
}

// Specs returns tool specs derived from the registered tools.
// The order is deterministic (sorted by name) for reproducibility.
func (r *Registry) Specs() []ToolSpec {
	names := make([]string, 0, len(r.nameToTool))
	for name := range r.nameToTool {
		names = append(names, name)
	}
	sort.Strings(names)
	specs := make([]ToolSpec, 0, len(names))
	for _, name := range names {
		t := r.nameToTool[name]
		specs = append(specs, ToolSpec{Name: name, Description: t.Description()})
	}
	return specs
}
