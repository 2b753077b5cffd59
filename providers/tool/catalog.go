package tool

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/forgeai/forgeai-go/providers/ai"
)

// Catalog manages a collection of tools with thread-safe operations and
// implements [Executor] by dispatching on tool name. Names are matched
// case-insensitively, matching how models occasionally alter casing.
type Catalog struct {
	mu    sync.RWMutex
	tools map[string]GenericTool
}

// NewCatalog creates an empty tool catalog.
func NewCatalog() *Catalog {
	return &Catalog{tools: make(map[string]GenericTool)}
}

// NewCatalogWithTools creates a catalog pre-populated with the given tools.
func NewCatalogWithTools(tools ...GenericTool) *Catalog {
	catalog := NewCatalog()
	catalog.AddTools(tools...)
	return catalog
}

// AddTools registers tools under their Definition().Name, stored lowercase.
// A tool with the same name replaces the previous registration.
func (c *Catalog) AddTools(tools ...GenericTool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tools {
		c.tools[strings.ToLower(t.Definition().Name)] = t
	}
}

// Get retrieves a tool by name (case-insensitive).
func (c *Catalog) Get(name string) (GenericTool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, exists := c.tools[strings.ToLower(name)]
	return t, exists
}

// Has reports whether a tool with the given name exists (case-insensitive).
func (c *Catalog) Has(name string) bool {
	_, exists := c.Get(name)
	return exists
}

// Remove deletes a tool by name. Returns true when a tool was removed.
func (c *Catalog) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	lower := strings.ToLower(name)
	if _, exists := c.tools[lower]; exists {
		delete(c.tools, lower)
		return true
	}
	return false
}

// Definitions returns the advertised definitions of all registered tools,
// sorted by name for deterministic request building.
func (c *Catalog) Definitions() []ai.ToolDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	definitions := make([]ai.ToolDefinition, 0, len(c.tools))
	for _, t := range c.tools {
		definitions = append(definitions, t.Definition())
	}

	// Map iteration order is random; keep the advertised list stable.
	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].Name < definitions[j].Name
	})
	return definitions
}

// Call implements [Executor]: it resolves name in the catalog and invokes the
// tool. An unregistered name yields an ErrNotFound-kind error.
func (c *Catalog) Call(ctx context.Context, name string, input json.RawMessage) (json.RawMessage, error) {
	t, exists := c.Get(name)
	if !exists {
		return nil, NewError(ErrNotFound, name, "no such tool registered", nil)
	}
	return t.Call(ctx, input)
}
