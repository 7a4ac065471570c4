package types

// Category represents service categories
type Category string

const (
	CategoryFilesystem Category = "filesystem"
	CategoryPlanner    Category = "planner"
)

// Service represents a provider definition
type Service struct {
	ID           string   `json:"id" yaml:"id" toml:"id"`
	Name         string   `json:"name" yaml:"name" toml:"name"`
	Description  string   `json:"description" yaml:"description" toml:"description"`
	Category     Category `json:"category" yaml:"category" toml:"category"`
	Capabilities []string `json:"capabilities" yaml:"capabilities" toml:"capabilities"`
	Tools        []Tool   `json:"tools" yaml:"tools" toml:"tools"`
}

// Tool describes one dispatchable action and its argument schema
type Tool struct {
	Name        string      `json:"name" yaml:"name" toml:"name"`
	Description string      `json:"description" yaml:"description" toml:"description"`
	Parameters  []Parameter `json:"parameters" yaml:"parameters" toml:"parameters"`
	Returns     string      `json:"returns" yaml:"returns" toml:"returns"`
}

// Parameter types understood by the argument validator.
const (
	TypeString  = "string"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
)

// Parameter represents a tool parameter
type Parameter struct {
	Name        string      `json:"name" yaml:"name" toml:"name"`
	Type        string      `json:"type" yaml:"type" toml:"type"`
	Description string      `json:"description" yaml:"description" toml:"description"`
	Required    bool        `json:"required" yaml:"required" toml:"required"`
	Default     interface{} `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
}

// Param looks up a parameter by name.
func (t Tool) Param(name string) (Parameter, bool) {
	for _, p := range t.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}
