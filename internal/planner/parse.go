package planner

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/fsagent/internal/types"
)

var (
	// ErrNotConfigured means no API key was provided
	ErrNotConfigured = errors.New("planner not configured")
	// ErrEmptyResponse means the model returned no text
	ErrEmptyResponse = errors.New("model returned no text")

	fenceOpen  = regexp.MustCompile("^```[a-zA-Z]*")
	fenceClose = regexp.MustCompile("```$")
	objectSpan = regexp.MustCompile(`\{[\s\S]*\}`)
)

// ParseError reports model output that is not a usable command
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse model output: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseDescriptor extracts an action descriptor from raw model text.
// Both {"action","args"} and {"tool","arguments","explanation"} are accepted.
func ParseDescriptor(text string) (types.ActionDescriptor, error) {
	obj, err := extractObject(text)
	if err != nil {
		return types.ActionDescriptor{}, &ParseError{Text: text, Err: err}
	}

	name := firstString(obj, "action", "tool", "name")
	explanation := firstString(obj, "explanation")

	var rawArgs interface{}
	for _, key := range []string{"args", "arguments"} {
		if v, ok := obj[key]; ok && v != nil {
			rawArgs = v
			break
		}
	}

	args := map[string]interface{}{}
	if rawArgs != nil {
		m, ok := rawArgs.(map[string]interface{})
		if !ok {
			return types.ActionDescriptor{}, &ParseError{Text: text, Err: fmt.Errorf("arguments must be an object, got %T", rawArgs)}
		}
		args = m
	}

	return types.ActionDescriptor{Name: name, Arguments: args, Explanation: explanation}, nil
}

func extractObject(text string) (map[string]interface{}, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSpace(fenceOpen.ReplaceAllString(s, ""))
	s = strings.TrimSpace(fenceClose.ReplaceAllString(s, ""))

	var direct interface{}
	if err := sonic.UnmarshalString(s, &direct); err == nil {
		if obj, ok := direct.(map[string]interface{}); ok {
			return obj, nil
		}
		return nil, fmt.Errorf("expected a JSON object, got %T", direct)
	}

	span := objectSpan.FindString(s)
	if span == "" {
		return nil, errors.New("no JSON object found")
	}
	var obj map[string]interface{}
	if err := sonic.UnmarshalString(span, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func firstString(obj map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
