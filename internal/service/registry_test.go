package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/fsagent/internal/types"
)

func TestRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubProvider{id: "stub", actions: []Action{echoAction()}}))

	action, ok := r.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", action.Tool.Name)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubProvider{id: "a", actions: []Action{echoAction()}}))

	err := r.Register(&stubProvider{id: "a"})
	assert.ErrorContains(t, err, "already registered")

	err = r.Register(&stubProvider{id: "b", actions: []Action{blockAction(), echoAction()}})
	assert.ErrorContains(t, err, `action "echo" already registered`)

	// Failed registration leaves nothing behind
	_, ok := r.Get("block")
	assert.False(t, ok)
	assert.Len(t, r.Services(nil), 1)
}

func TestRegisterValidation(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(&stubProvider{id: ""}))

	noHandler := echoAction()
	noHandler.Handler = nil
	assert.ErrorContains(t, r.Register(&stubProvider{id: "x", actions: []Action{noHandler}}), "no handler")

	badName := echoAction()
	badName.Tool.Name = "bad name!"
	assert.Error(t, r.Register(&stubProvider{id: "y", actions: []Action{badName}}))
}

func TestList(t *testing.T) {
	r := newTestRegistry(sleepAction(0), echoAction(), blockAction())

	tools := r.List()
	require.Len(t, tools, 3)
	assert.Equal(t, "block", tools[0].Name)
	assert.Equal(t, "echo", tools[1].Name)
	assert.Equal(t, "sleep", tools[2].Name)
}

func TestServices(t *testing.T) {
	r := newTestRegistry(echoAction())

	all := r.Services(nil)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Tools, 1)

	fs := types.CategoryFilesystem
	assert.Len(t, r.Services(&fs), 1)

	planner := types.CategoryPlanner
	assert.Empty(t, r.Services(&planner))
}

func TestDiscover(t *testing.T) {
	r := newTestRegistry(echoAction(), blockAction(), sleepAction(0))

	results := r.Discover("please echo this message", 5)
	require.NotEmpty(t, results)
	assert.Equal(t, "echo", results[0].Name)

	assert.Empty(t, r.Discover("zzz", 5))

	limited := r.Discover("echo sleep block", 1)
	assert.Len(t, limited, 1)
}

func TestStats(t *testing.T) {
	r := newTestRegistry(echoAction(), blockAction())

	stats := r.Stats()
	assert.Equal(t, 1, stats["total_services"])
	assert.Equal(t, 2, stats["total_tools"])
	assert.Equal(t, map[string]int{"filesystem": 1}, stats["categories"])
}
