package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/fsagent/internal/types"
)

func schemaTool() types.Tool {
	return types.Tool{
		Name: "demo",
		Parameters: []types.Parameter{
			{Name: "path", Type: types.TypeString, Required: true},
			{Name: "recursive", Type: types.TypeBoolean, Default: false},
			{Name: "limit", Type: types.TypeInteger},
		},
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	args, err := Validate(schemaTool(), map[string]interface{}{"path": "a.txt"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"path": "a.txt", "recursive": false}, args)
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	in := map[string]interface{}{"path": "a.txt"}
	_, err := Validate(schemaTool(), in)
	require.NoError(t, err)
	assert.Len(t, in, 1)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing required", map[string]interface{}{}, "missing required argument: path"},
		{"null required", map[string]interface{}{"path": nil}, "missing required argument: path"},
		{"unknown", map[string]interface{}{"path": "a", "zzz": 1, "aaa": 2}, "unexpected argument(s): aaa, zzz"},
		{"wrong type", map[string]interface{}{"path": 7}, "argument path: expected string, got int"},
		{"bad bool", map[string]interface{}{"path": "a", "recursive": "maybe"}, "expected boolean"},
		{"fractional int", map[string]interface{}{"path": "a", "limit": 1.5}, "expected integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(schemaTool(), tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateCoercion(t *testing.T) {
	args, err := Validate(schemaTool(), map[string]interface{}{
		"path":      "a",
		"recursive": "TRUE",
		"limit":     float64(3),
	})
	require.NoError(t, err)
	assert.Equal(t, true, args["recursive"])
	assert.Equal(t, int64(3), args["limit"])

	args, err = Validate(schemaTool(), map[string]interface{}{"path": "a", "limit": json.Number("42")})
	require.NoError(t, err)
	assert.Equal(t, int64(42), IntArg(args, "limit"))
}
