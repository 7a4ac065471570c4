package service

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/GriffinCanCode/fsagent/internal/types"
)

// Validate checks args against the tool schema and returns a new map with
// defaults filled in. Null values count as absent.
func Validate(tool types.Tool, args map[string]interface{}) (map[string]interface{}, error) {
	var unknown []string
	for name := range args {
		if _, ok := tool.Param(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%s got unexpected argument(s): %s", tool.Name, strings.Join(unknown, ", "))
	}

	out := make(map[string]interface{}, len(tool.Parameters))
	for _, p := range tool.Parameters {
		raw, present := args[p.Name]
		if !present || raw == nil {
			switch {
			case p.Required:
				return nil, fmt.Errorf("%s missing required argument: %s", tool.Name, p.Name)
			case p.Default != nil:
				out[p.Name] = p.Default
			}
			continue
		}

		value, err := coerce(p.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("%s argument %s: %w", tool.Name, p.Name, err)
		}
		out[p.Name] = value
	}
	return out, nil
}

func coerce(kind string, raw interface{}) (interface{}, error) {
	switch kind {
	case types.TypeString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case types.TypeBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
	case types.TypeInteger:
		switch v := raw.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v == math.Trunc(v) && !math.IsInf(v, 0) {
				return int64(v), nil
			}
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return n, nil
			}
		}
	default:
		return raw, nil
	}
	return nil, fmt.Errorf("expected %s, got %T", kind, raw)
}
