package service

import (
	"context"

	"github.com/GriffinCanCode/fsagent/internal/types"
)

// Handler executes an action with arguments that already passed Validate
type Handler func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Summarizer renders a successful result as one sentence
type Summarizer func(args map[string]interface{}, result interface{}) string

// Action is one catalog entry
type Action struct {
	Tool      types.Tool
	Handler   Handler
	Summarize Summarizer
}

// Provider contributes a group of actions
type Provider interface {
	Definition() types.Service
	Actions() []Action
}
