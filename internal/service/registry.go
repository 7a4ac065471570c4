package service

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/GriffinCanCode/fsagent/internal/shared/utils"
	"github.com/GriffinCanCode/fsagent/internal/types"
)

// Registry is the action catalog
type Registry struct {
	actions  sync.Map // name -> Action
	services sync.Map // service ID -> types.Service
	mu       sync.Mutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds every action of a provider. It fails without side effects
// if the provider or any of its actions collides with an existing entry.
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}
	actions := provider.Actions()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services.Load(def.ID); exists {
		return fmt.Errorf("service %q already registered", def.ID)
	}
	seen := make(map[string]bool, len(actions))
	for _, a := range actions {
		name := a.Tool.Name
		if err := utils.ValidateToolID(name, "action name", true); err != nil {
			return fmt.Errorf("service %q: %w", def.ID, err)
		}
		if a.Handler == nil {
			return fmt.Errorf("action %q has no handler", name)
		}
		if _, exists := r.actions.Load(name); exists || seen[name] {
			return fmt.Errorf("action %q already registered", name)
		}
		seen[name] = true
	}

	def.Tools = make([]types.Tool, 0, len(actions))
	for _, a := range actions {
		r.actions.Store(a.Tool.Name, a)
		def.Tools = append(def.Tools, a.Tool)
	}
	r.services.Store(def.ID, def)
	return nil
}

// Get retrieves an action by name
func (r *Registry) Get(name string) (Action, bool) {
	val, ok := r.actions.Load(name)
	if !ok {
		return Action{}, false
	}
	return val.(Action), true
}

// List returns every tool sorted by name
func (r *Registry) List() []types.Tool {
	var tools []types.Tool
	r.actions.Range(func(_, value interface{}) bool {
		tools = append(tools, value.(Action).Tool)
		return true
	})
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})
	return tools
}

// Services returns registered providers, optionally filtered by category
func (r *Registry) Services(category *types.Category) []types.Service {
	var services []types.Service
	r.services.Range(func(_, value interface{}) bool {
		def := value.(types.Service)
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
		return true
	})
	sort.Slice(services, func(i, j int) bool {
		return services[i].ID < services[j].ID
	})
	return services
}

// Discover ranks tools by keyword relevance to a free-text query
func (r *Registry) Discover(query string, limit int) []types.Tool {
	type scoredTool struct {
		tool  types.Tool
		score float64
	}

	if limit <= 0 {
		limit = 5
	}
	queryLower := strings.ToLower(query)
	var results []scoredTool

	for _, tool := range r.List() {
		if score := relevance(queryLower, tool); score > 0 {
			results = append(results, scoredTool{tool: tool, score: score})
		}
	}

	// Stable keeps name order among equal scores
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	output := make([]types.Tool, 0, limit)
	for i := 0; i < len(results) && i < limit; i++ {
		output = append(output, results[i].tool)
	}
	return output
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	var total, totalTools int
	categories := make(map[string]int)

	r.services.Range(func(_, value interface{}) bool {
		def := value.(types.Service)
		total++
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
		return true
	})

	return map[string]interface{}{
		"total_services": total,
		"total_tools":    totalTools,
		"categories":     categories,
	}
}

func relevance(query string, tool types.Tool) float64 {
	score := 0.0

	name := strings.ToLower(tool.Name)
	if strings.Contains(query, name) || strings.Contains(query, strings.ReplaceAll(name, "_", " ")) {
		score += 10.0
	}

	// Name parts: "search_in_files" -> search, in, files
	for _, part := range strings.Split(name, "_") {
		if len(part) > 2 && strings.Contains(query, part) {
			score += 4.0
		}
	}

	for _, word := range strings.Fields(strings.ToLower(tool.Description)) {
		word = strings.Trim(word, ".,()'\"")
		if len(word) > 3 && strings.Contains(query, word) {
			score += 1.0
		}
	}

	for _, p := range tool.Parameters {
		if strings.Contains(query, strings.ReplaceAll(p.Name, "_", " ")) {
			score += 0.5
		}
	}

	return score
}
