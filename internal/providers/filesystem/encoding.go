package filesystem

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

const (
	encodingUTF8 = "utf-8"
	encodingAuto = "auto"
)

// textCodec converts between Go strings and encoded bytes.
// A nil enc means strict UTF-8.
type textCodec struct {
	name string
	enc  encoding.Encoding
	auto bool
}

func isUTF8Name(name string) bool {
	n := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(name)))
	return n == "" || n == "utf8"
}

// lookupCodec resolves an encoding label
func lookupCodec(name string) (textCodec, error) {
	switch {
	case isUTF8Name(name):
		return textCodec{name: encodingUTF8}, nil
	case strings.EqualFold(strings.TrimSpace(name), encodingAuto):
		return textCodec{name: encodingAuto, auto: true}, nil
	}

	label := strings.TrimSpace(name)
	// Accept spellings like latin_1 and latin-1 alongside registered labels
	candidates := []string{
		label,
		strings.ReplaceAll(label, "_", "-"),
		strings.NewReplacer("-", "", "_", "").Replace(label),
	}
	for _, candidate := range candidates {
		if enc, err := ianaindex.IANA.Encoding(candidate); err == nil && enc != nil {
			return textCodec{name: label, enc: enc}, nil
		}
	}
	for _, candidate := range candidates {
		if enc, err := htmlindex.Get(candidate); err == nil && enc != nil {
			return textCodec{name: label, enc: enc}, nil
		}
	}
	return textCodec{}, fmt.Errorf("unknown encoding: %s", name)
}

func (c textCodec) decode(data []byte) (string, error) {
	if c.auto {
		detected, err := detect(data)
		if err != nil {
			return "", err
		}
		return detected.decode(data)
	}
	if c.enc == nil {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("'%s' codec can't decode content", encodingUTF8)
		}
		return string(data), nil
	}
	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("'%s' codec can't decode content: %w", c.name, err)
	}
	return string(out), nil
}

// encode writes auto as UTF-8
func (c textCodec) encode(text string) ([]byte, error) {
	if c.enc == nil {
		if !utf8.ValidString(text) {
			return nil, fmt.Errorf("'%s' codec can't encode content", encodingUTF8)
		}
		return []byte(text), nil
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("'%s' codec can't encode content: %w", c.name, err)
	}
	return out, nil
}

// detect picks a codec from content, falling back to strict UTF-8
func detect(data []byte) (textCodec, error) {
	if len(data) == 0 || utf8.Valid(data) {
		return textCodec{name: encodingUTF8}, nil
	}
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return textCodec{name: encodingUTF8}, nil
	}
	codec, err := lookupCodec(result.Charset)
	if err != nil || codec.auto {
		return textCodec{name: encodingUTF8}, nil
	}
	return codec, nil
}
