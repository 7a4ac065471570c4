package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Request size limits, in bytes
const (
	MaxJSONSize    = 1 << 20 // REST request body
	MaxMessageSize = 16 << 10
	MaxPromptSize  = 8 << 10
	MaxIDLength    = 128
)

var actionName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateToolID checks an action name before it enters the registry.
func ValidateToolID(id, field string, required bool) error {
	if id == "" {
		if required {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("%s must not exceed %d characters", field, MaxIDLength)
	}
	if !actionName.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, dots, hyphens, and underscores allowed)", field)
	}
	return nil
}

// ValidatePrompt rejects blank, oversized or NUL-bearing commands.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return errors.New("prompt is required")
	}
	return checkText(prompt, "prompt", MaxPromptSize)
}

// ValidateMessage applies the stream message limit to free text.
func ValidateMessage(message string) error {
	if message == "" {
		return errors.New("message is required")
	}
	return checkText(message, "message", MaxMessageSize)
}

func checkText(s, field string, max int) error {
	if n := utf8.RuneCountInString(s); n > max {
		return fmt.Errorf("%s must not exceed %d characters", field, max)
	}
	if strings.ContainsRune(s, 0) {
		return fmt.Errorf("%s contains invalid characters", field)
	}
	return nil
}
