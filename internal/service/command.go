package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsagent/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsagent/internal/planner"
	"github.com/GriffinCanCode/fsagent/internal/shared/utils"
	"github.com/GriffinCanCode/fsagent/internal/types"
)

// Planner turns free text into an untrusted action descriptor
type Planner interface {
	Plan(ctx context.Context, prompt string, tools []types.Tool) (types.ActionDescriptor, error)
}

const notConfiguredMessage = "GOOGLE_API_KEY not set. Add it to your .env or environment."

// Commander runs natural-language commands: plan, then dispatch
type Commander struct {
	planner    Planner
	dispatcher *Dispatcher
	logger     *logging.Logger
}

// NewCommander creates a commander. A nil planner behaves as unconfigured.
func NewCommander(p Planner, dispatcher *Dispatcher, logger *logging.Logger) *Commander {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Commander{planner: p, dispatcher: dispatcher, logger: logger.Named("commander")}
}

// Run returns one human-readable sentence for any prompt
func (c *Commander) Run(ctx context.Context, prompt string) string {
	return c.Execute(ctx, prompt).Summary
}

// Execute is Run with the full outcome, including the planned action
func (c *Commander) Execute(ctx context.Context, prompt string) Outcome {
	if c.planner == nil {
		return Outcome{Summary: notConfiguredMessage, Err: planner.ErrNotConfigured}
	}
	if err := utils.ValidatePrompt(prompt); err != nil {
		return Outcome{Summary: "Execution error: " + err.Error(), Err: malformed("nl_command", err)}
	}

	desc, err := c.planner.Plan(ctx, prompt, c.dispatcher.Registry().List())
	var parseErr *planner.ParseError
	switch {
	case errors.Is(err, planner.ErrNotConfigured):
		return Outcome{Summary: notConfiguredMessage, Err: err}
	case errors.As(err, &parseErr):
		c.logger.Info("planner output rejected", zap.Error(err))
		return Outcome{
			Summary: "Could not parse model output as JSON command: " + firstRunes(parseErr.Text, 200),
			Err:     malformed("nl_command", err),
		}
	case err != nil:
		c.logger.Warn("planner failed", zap.Error(err))
		return Outcome{Summary: fmt.Sprintf("LLM error: %v", err), Err: err}
	}

	c.logger.Info("dispatching planned action",
		zap.String("action", desc.Name),
		zap.Int("arguments", len(desc.Arguments)))
	return c.dispatcher.Dispatch(ctx, desc)
}

func firstRunes(s string, n int) string {
	out, _ := truncateRunes(s, n)
	return out
}
