package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/GriffinCanCode/fsagent/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsagent/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsagent/internal/shared/id"
	"github.com/GriffinCanCode/fsagent/internal/types"
)

// DispatchConfig bounds action execution
type DispatchConfig struct {
	// Timeout applies when the caller's context has no deadline; zero disables it
	Timeout time.Duration
	// MaxConcurrent caps in-flight handlers
	MaxConcurrent int64
}

// Outcome is the result of the summarized path
type Outcome struct {
	CallID  id.CallID   `json:"call_id"`
	Action  string      `json:"action"`
	Summary string      `json:"summary"`
	Result  interface{} `json:"result,omitempty"`
	Err     error       `json:"-"`
}

// Dispatcher validates and executes actions from the registry
type Dispatcher struct {
	registry *Registry
	cfg      DispatchConfig
	slots    *semaphore.Weighted
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewDispatcher creates a dispatcher. Logger and metrics may be nil.
func NewDispatcher(registry *Registry, cfg DispatchConfig, logger *logging.Logger, metrics *monitoring.Metrics) *Dispatcher {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 16
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{
		registry: registry,
		cfg:      cfg,
		slots:    semaphore.NewWeighted(cfg.MaxConcurrent),
		logger:   logger.Named("dispatcher"),
		metrics:  metrics,
	}
}

// Registry returns the catalog the dispatcher executes from
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Call executes one action and returns its structured result.
// Errors are *CallError values.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	return d.call(ctx, id.NewCallID(), name, args)
}

// Dispatch executes an untrusted descriptor and always returns a summary
func (d *Dispatcher) Dispatch(ctx context.Context, desc types.ActionDescriptor) Outcome {
	callID := id.NewCallID()
	out := Outcome{CallID: callID, Action: desc.Name}

	result, err := d.call(ctx, callID, desc.Name, desc.Arguments)
	if err != nil {
		out.Err = err
		if errors.Is(err, ErrUnsupportedAction) {
			out.Summary = "Unsupported action: " + desc.Name
		} else {
			out.Summary = "Execution error: " + err.Error()
		}
		return out
	}

	out.Result = result
	out.Summary = d.summarize(desc.Name, desc.Arguments, result)
	return out
}

func (d *Dispatcher) summarize(name string, rawArgs map[string]interface{}, result interface{}) string {
	action, _ := d.registry.Get(name)
	if action.Summarize == nil {
		return Summarize(result)
	}
	// Summaries read defaults as well as explicit arguments
	args, err := Validate(action.Tool, rawArgs)
	if err != nil {
		args = rawArgs
	}
	return action.Summarize(args, result)
}

func (d *Dispatcher) call(ctx context.Context, callID id.CallID, name string, rawArgs map[string]interface{}) (interface{}, error) {
	log := d.logger.With(zap.String("call_id", callID.String()), zap.String("action", name))

	action, ok := d.registry.Get(name)
	if !ok {
		log.Info("unsupported action")
		d.recordError(name, CodeUnsupportedAction)
		return nil, unsupported(name)
	}

	args, err := Validate(action.Tool, rawArgs)
	if err != nil {
		log.Info("malformed arguments", zap.Error(err))
		d.recordError(name, CodeMalformed)
		return nil, malformed(name, err)
	}

	if d.cfg.Timeout > 0 {
		if _, has := ctx.Deadline(); !has {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
			defer cancel()
		}
	}

	if err := d.slots.Acquire(ctx, 1); err != nil {
		log.Warn("no execution slot", zap.Error(err))
		d.recordError(name, CodeTimeout)
		return nil, failed(name, fmt.Errorf("%s waiting for a slot %w: %w", name, ErrTimeout, err))
	}

	timer := monitoring.NewTimer(d.metrics, name)
	result, err := d.run(ctx, action, args)
	elapsed := timer.Stop(status(err))

	if err != nil {
		code := ErrorCode(err)
		log.Info("action failed", zap.String("code", code), zap.Duration("elapsed", elapsed), zap.Error(err))
		d.recordError(name, code)
		var ce *CallError
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, failed(name, err)
	}

	log.Debug("action completed", zap.Duration("elapsed", elapsed))
	return result, nil
}

type runResult struct {
	value interface{}
	err   error
}

// run executes the handler in its own goroutine and abandons it when ctx
// ends first. The slot is released only when the handler returns.
func (d *Dispatcher) run(ctx context.Context, action Action, args map[string]interface{}) (interface{}, error) {
	done := make(chan runResult, 1)
	go func() {
		defer d.slots.Release(1)
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("action panicked",
					zap.String("action", action.Tool.Name),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				done <- runResult{err: fmt.Errorf("%s panicked: %v", action.Tool.Name, r)}
			}
		}()
		value, err := action.Handler(ctx, args)
		done <- runResult{value: value, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && ctx.Err() != nil && errors.Is(r.err, ctx.Err()) {
			return nil, timeoutError(action.Tool.Name, ctx.Err())
		}
		return r.value, r.err
	case <-ctx.Done():
		return nil, timeoutError(action.Tool.Name, ctx.Err())
	}
}

func timeoutError(name string, cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) {
		return failed(name, fmt.Errorf("%s %w: %w", name, ErrTimeout, cause))
	}
	return failed(name, fmt.Errorf("%s cancelled: %w", name, cause))
}

func (d *Dispatcher) recordError(name, code string) {
	if d.metrics == nil {
		return
	}
	if code == CodeUnsupportedAction {
		// Unknown names would otherwise create unbounded label values
		name = "unknown"
	}
	d.metrics.RecordActionError(name, code)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
