package definition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mirror12k/catwalk-apigen/pkg/types"
)

// Format is the encoding of a definition file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// document is the mapping form: {"endpoints": [...]}.
type document struct {
	Endpoints types.APIDefinition `json:"endpoints" yaml:"endpoints"`
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported definition file extension %q", filepath.Ext(path))
	}
}

// Parse reads an API definition from a .json, .yaml or .yml file.
func Parse(path string) (types.APIDefinition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return def, nil
}

// Decode accepts either a top-level list of endpoints or a mapping with an
// endpoints list. Null args become empty lists; nothing else is validated.
func Decode(data []byte, format Format) (types.APIDefinition, error) {
	var def types.APIDefinition
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 {
			return types.APIDefinition{}, nil
		}
		if trimmed[0] == '{' {
			var doc document
			if err := json.Unmarshal(trimmed, &doc); err != nil {
				return nil, err
			}
			def = doc.Endpoints
		} else if err := json.Unmarshal(trimmed, &def); err != nil {
			return nil, err
		}
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		if len(node.Content) == 0 {
			return types.APIDefinition{}, nil
		}
		root := node.Content[0]
		if root.Kind == yaml.MappingNode {
			var doc document
			if err := root.Decode(&doc); err != nil {
				return nil, err
			}
			def = doc.Endpoints
		} else if err := root.Decode(&def); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported definition format %q", format)
	}

	if def == nil {
		def = types.APIDefinition{}
	}
	for i := range def {
		if def[i].Args == nil {
			def[i].Args = []string{}
		}
	}
	return def, nil
}
