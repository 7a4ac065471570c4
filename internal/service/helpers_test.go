package service

import (
	"context"
	"errors"
	"time"

	"github.com/GriffinCanCode/fsagent/internal/types"
)

type stubProvider struct {
	id      string
	actions []Action
}

func (p *stubProvider) Definition() types.Service {
	return types.Service{
		ID:          p.id,
		Name:        "Stub",
		Description: "stub actions for tests",
		Category:    types.CategoryFilesystem,
	}
}

func (p *stubProvider) Actions() []Action {
	return p.actions
}

func echoAction() Action {
	return Action{
		Tool: types.Tool{
			Name:        "echo",
			Description: "Echo the given message back",
			Parameters: []types.Parameter{
				{Name: "message", Type: types.TypeString, Required: true},
				{Name: "shout", Type: types.TypeBoolean, Default: false},
			},
			Returns: "string",
		},
		Handler: func(_ context.Context, args map[string]interface{}) (interface{}, error) {
			msg := StringArg(args, "message")
			if BoolArg(args, "shout") {
				msg += "!"
			}
			return msg, nil
		},
	}
}

func blockAction() Action {
	return Action{
		Tool: types.Tool{Name: "block", Description: "Wait until cancelled"},
		Handler: func(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
}

func sleepAction(d time.Duration) Action {
	return Action{
		Tool: types.Tool{Name: "sleep", Description: "Sleep then succeed"},
		Handler: func(_ context.Context, _ map[string]interface{}) (interface{}, error) {
			time.Sleep(d)
			return "slept", nil
		},
	}
}

func panicAction() Action {
	return Action{
		Tool: types.Tool{Name: "explode", Description: "Always panics"},
		Handler: func(context.Context, map[string]interface{}) (interface{}, error) {
			panic("boom")
		},
	}
}

type codedError struct{}

func (codedError) Error() string { return "Not found: x" }
func (codedError) Code() string  { return "NOT_FOUND" }

func failAction() Action {
	return Action{
		Tool: types.Tool{Name: "fail", Description: "Always fails"},
		Handler: func(context.Context, map[string]interface{}) (interface{}, error) {
			return nil, codedError{}
		},
	}
}

func plainFailAction() Action {
	return Action{
		Tool: types.Tool{Name: "plain_fail", Description: "Fails without a code"},
		Handler: func(context.Context, map[string]interface{}) (interface{}, error) {
			return nil, errors.New("disk on fire")
		},
	}
}

func newTestRegistry(actions ...Action) *Registry {
	r := NewRegistry()
	if err := r.Register(&stubProvider{id: "stub", actions: actions}); err != nil {
		panic(err)
	}
	return r
}
