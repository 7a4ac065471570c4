package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/fsagent/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsagent/internal/types"
)

func newTestDispatcher(cfg DispatchConfig, actions ...Action) (*Dispatcher, *monitoring.Metrics) {
	metrics := monitoring.NewMetrics()
	return NewDispatcher(newTestRegistry(actions...), cfg, nil, metrics), metrics
}

func TestCall(t *testing.T) {
	d, metrics := newTestDispatcher(DispatchConfig{}, echoAction())

	result, err := d.Call(context.Background(), "echo", map[string]interface{}{"message": "hi", "shout": true})
	require.NoError(t, err)
	assert.Equal(t, "hi!", result)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ActionCalls.WithLabelValues("echo", "success")))
}

func TestCallUnsupported(t *testing.T) {
	d, metrics := newTestDispatcher(DispatchConfig{}, echoAction())

	_, err := d.Call(context.Background(), "format_disk", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedAction)
	assert.Equal(t, "Unsupported action: format_disk", err.Error())
	assert.Equal(t, CodeUnsupportedAction, ErrorCode(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ActionErrors.WithLabelValues("unknown", CodeUnsupportedAction)))
}

func TestCallMalformed(t *testing.T) {
	d, _ := newTestDispatcher(DispatchConfig{}, echoAction())

	_, err := d.Call(context.Background(), "echo", map[string]interface{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedArguments)
	assert.Equal(t, CodeMalformed, ErrorCode(err))

	var ce *CallError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "echo", ce.Action)
}

func TestCallDomainErrorCode(t *testing.T) {
	d, _ := newTestDispatcher(DispatchConfig{}, failAction(), plainFailAction())

	_, err := d.Call(context.Background(), "fail", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecution)
	assert.Equal(t, "NOT_FOUND", ErrorCode(err))
	assert.Equal(t, "Not found: x", err.Error())

	_, err = d.Call(context.Background(), "plain_fail", nil)
	assert.Equal(t, CodeExecution, ErrorCode(err))
}

func TestCallTimeout(t *testing.T) {
	d, _ := newTestDispatcher(DispatchConfig{Timeout: 20 * time.Millisecond}, blockAction())

	start := time.Now()
	_, err := d.Call(context.Background(), "block", nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, CodeTimeout, ErrorCode(err))
}

func TestCallCallerDeadlineWins(t *testing.T) {
	d, _ := newTestDispatcher(DispatchConfig{Timeout: time.Hour}, blockAction())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := d.Call(ctx, "block", nil)
	assert.Equal(t, CodeTimeout, ErrorCode(err))
}

func TestCallCancelled(t *testing.T) {
	d, _ := newTestDispatcher(DispatchConfig{}, blockAction())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := d.Call(ctx, "block", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, CodeExecution, ErrorCode(err))
}

func TestCallRecoversPanic(t *testing.T) {
	d, _ := newTestDispatcher(DispatchConfig{}, panicAction(), echoAction())

	_, err := d.Call(context.Background(), "explode", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explode panicked: boom")

	// The slot was released
	result, err := d.Call(context.Background(), "echo", map[string]interface{}{"message": "still alive"})
	require.NoError(t, err)
	assert.Equal(t, "still alive", result)
}

func TestCallConcurrencyLimit(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	hold := Action{
		Tool: types.Tool{Name: "hold", Description: "Hold a slot"},
		Handler: func(context.Context, map[string]interface{}) (interface{}, error) {
			close(started)
			<-release
			return "released", nil
		},
	}
	d, _ := newTestDispatcher(DispatchConfig{MaxConcurrent: 1}, hold, echoAction())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		result, err := d.Call(context.Background(), "hold", nil)
		assert.NoError(t, err)
		assert.Equal(t, "released", result)
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := d.Call(ctx, "echo", map[string]interface{}{"message": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "waiting for a slot")
	assert.Equal(t, CodeTimeout, ErrorCode(err))

	close(release)
	wg.Wait()

	result, err := d.Call(context.Background(), "echo", map[string]interface{}{"message": "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", result)
}

func TestCallParallel(t *testing.T) {
	d, _ := newTestDispatcher(DispatchConfig{MaxConcurrent: 4}, echoAction())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := d.Call(context.Background(), "echo", map[string]interface{}{"message": "m"})
			assert.NoError(t, err)
			assert.Equal(t, "m", result)
		}()
	}
	wg.Wait()
}

func TestDispatch(t *testing.T) {
	echo := echoAction()
	echo.Summarize = func(args map[string]interface{}, result interface{}) string {
		return "Echoed " + result.(string)
	}
	d, _ := newTestDispatcher(DispatchConfig{}, echo, plainFailAction(), sleepAction(0))

	tests := []struct {
		name string
		desc types.ActionDescriptor
		want string
	}{
		{
			name: "summarized",
			desc: types.ActionDescriptor{Name: "echo", Arguments: map[string]interface{}{"message": "hi"}},
			want: "Echoed hi",
		},
		{
			name: "generic summary",
			desc: types.ActionDescriptor{Name: "sleep"},
			want: "slept",
		},
		{
			name: "unsupported",
			desc: types.ActionDescriptor{Name: "rm_rf"},
			want: "Unsupported action: rm_rf",
		},
		{
			name: "empty name",
			desc: types.ActionDescriptor{},
			want: "Unsupported action: ",
		},
		{
			name: "malformed",
			desc: types.ActionDescriptor{Name: "echo", Arguments: map[string]interface{}{}},
			want: "Execution error: echo missing required argument: message",
		},
		{
			name: "handler error",
			desc: types.ActionDescriptor{Name: "plain_fail"},
			want: "Execution error: disk on fire",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := d.Dispatch(context.Background(), tt.desc)
			assert.Equal(t, tt.want, out.Summary)
			assert.Equal(t, tt.desc.Name, out.Action)
			assert.NotEmpty(t, out.CallID)
		})
	}
}

func TestDispatchSummaryUsesDefaults(t *testing.T) {
	echo := echoAction()
	echo.Summarize = func(args map[string]interface{}, _ interface{}) string {
		if BoolArg(args, "shout") {
			return "shouted"
		}
		return "quiet"
	}
	d, _ := newTestDispatcher(DispatchConfig{}, echo)

	out := d.Dispatch(context.Background(), types.ActionDescriptor{Name: "echo", Arguments: map[string]interface{}{"message": "a"}})
	require.NoError(t, out.Err)
	assert.Equal(t, "quiet", out.Summary)
	assert.Equal(t, "a", out.Result)
}
