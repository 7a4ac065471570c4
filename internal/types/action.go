package types

import "time"

// ActionDescriptor is an operation name plus its argument mapping.
// It is untrusted until the dispatcher has validated it.
type ActionDescriptor struct {
	Name        string                 `json:"name"`
	Arguments   map[string]interface{} `json:"arguments"`
	Explanation string                 `json:"explanation,omitempty"`
}

// Entry describes one filesystem object as observed at query time
type Entry struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	IsDir bool   `json:"is_dir"`
	Size  *int64 `json:"size"`

	// Populated by info queries only
	Exists   *bool      `json:"exists,omitempty"`
	Mode     string     `json:"mode,omitempty"`
	Modified *time.Time `json:"modified,omitempty"`
	MimeType string     `json:"mime_type,omitempty"`
	Checksum string     `json:"checksum,omitempty"`
}

// Match is a file that contains the searched text
type Match struct {
	Path        string `json:"path"`
	Occurrences int    `json:"occurrences"`
}
