package types

// CallRequest invokes a catalog action by name
type CallRequest struct {
	Name      string                 `json:"name" binding:"required"`
	Arguments map[string]interface{} `json:"arguments"`
}

// CommandRequest carries a natural-language instruction
type CommandRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// DiscoverRequest ranks catalog tools against a free-text query
type DiscoverRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type      string                 `json:"type"`
	ID        string                 `json:"id,omitempty"`
	Name      string                 `json:"name,omitempty"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
	Prompt    string                 `json:"prompt,omitempty"`
}
