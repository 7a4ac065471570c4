package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/fsagent/internal/types"
)

const (
	summaryNames   = 10
	previewLength  = 200
	previewEllipse = "…"
)

// Summarize renders any result with the generic rules: strings pass through,
// everything else is serialized as JSON.
func Summarize(result interface{}) string {
	if s, ok := result.(string); ok {
		return s
	}
	data, err := sonic.Marshal(result)
	if err != nil {
		return fmt.Sprintf("%v", result)
	}
	return string(data)
}

// SummarizeListing renders a directory listing
func SummarizeListing(args map[string]interface{}, result interface{}) string {
	entries, ok := result.([]types.Entry)
	if !ok {
		return Summarize(result)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = orUnknown(e.Name)
	}
	folder := StringArg(args, "path")
	if folder == "" {
		folder = "."
	}
	return fmt.Sprintf("Found %d item(s) in %s: %s.", len(entries), folder, joinFirst(names))
}

// SummarizeFileSearch renders a file name search
func SummarizeFileSearch(args map[string]interface{}, result interface{}) string {
	paths, ok := result.([]string)
	if !ok {
		return Summarize(result)
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return fmt.Sprintf("Found %d file(s) matching '%s': %s.", len(paths), StringArg(args, "name_contains"), joinFirst(names))
}

// SummarizeContentSearch renders a text search
func SummarizeContentSearch(args map[string]interface{}, result interface{}) string {
	matches, ok := result.([]types.Match)
	if !ok {
		return Summarize(result)
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = filepath.Base(orUnknown(m.Path))
	}
	return fmt.Sprintf("Found '%s' in %d file(s): %s.", StringArg(args, "text"), len(matches), joinFirst(names))
}

// SummarizeInfo renders file metadata
func SummarizeInfo(_ map[string]interface{}, result interface{}) string {
	entry, ok := result.(types.Entry)
	if !ok {
		return Summarize(result)
	}
	kind := "file"
	if entry.IsDir {
		kind = "folder"
	}
	size := "unknown"
	if entry.Size != nil {
		size = fmt.Sprintf("%d", *entry.Size)
	}
	return fmt.Sprintf("%s is a %s (size: %s bytes).", orUnknown(entry.Name), kind, size)
}

// SummarizeRead renders a file read as a short preview
func SummarizeRead(_ map[string]interface{}, result interface{}) string {
	text, ok := result.(string)
	if !ok {
		return Summarize(result)
	}
	preview, truncated := truncateRunes(text, previewLength)
	preview = strings.ReplaceAll(preview, "\n", " ")
	if truncated {
		preview += previewEllipse
	}
	return "Read file successfully. First 200 chars: " + preview
}

// SummarizeText passes string results through unchanged
func SummarizeText(_ map[string]interface{}, result interface{}) string {
	return Summarize(result)
}

func joinFirst(names []string) string {
	shown := names
	if len(shown) > summaryNames {
		shown = shown[:summaryNames]
	}
	out := strings.Join(shown, ", ")
	if extra := len(names) - summaryNames; extra > 0 {
		out += fmt.Sprintf(" (and %d more)", extra)
	}
	return out
}

func truncateRunes(s string, n int) (string, bool) {
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], true
		}
		i++
	}
	return s, false
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
