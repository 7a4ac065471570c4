package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/fsagent/internal/types"
)

// Catalog is the exported form of the registry
type Catalog struct {
	Tools []types.Tool `json:"tools" yaml:"tools" toml:"tools"`
}

// ExportCatalog writes the tool catalog as json, yaml or toml
func ExportCatalog(w io.Writer, registry *Registry, format string) error {
	catalog := Catalog{Tools: registry.List()}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(format) {
	case "", "json":
		data, err = sonic.ConfigStd.MarshalIndent(catalog, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case "yaml", "yml":
		data, err = yaml.Marshal(catalog)
	case "toml":
		data, err = toml.Marshal(catalog)
	default:
		return fmt.Errorf("unsupported format %q (want json, yaml or toml)", format)
	}
	if err != nil {
		return fmt.Errorf("encode catalog as %s: %w", format, err)
	}

	_, err = w.Write(data)
	return err
}
