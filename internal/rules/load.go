package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// packFile is the on-disk shape of a rule pack:
//
//	rules:
//	  - name: no-alert
//	    pattern: '\balert\s*\('
//	    summary: "alert() left in"
type packFile struct {
	Rules []Def `yaml:"rules" toml:"rules" json:"rules"`
}

// LoadFile reads a rule pack. The format is chosen from the file extension
// (.yaml, .yml, .toml or .json). Every rule is compiled; the first invalid
// one aborts the load.
func LoadFile(path string) ([]*Rule, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defs, err := decodePack(data, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	out := make([]*Rule, 0, len(defs))
	for i, d := range defs {
		r, err := New(d)
		if err != nil {
			return nil, fmt.Errorf("%s: rules[%d]: %w", path, i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func decodePack(data []byte, ext string) ([]Def, error) {
	var pack packFile
	switch ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&pack); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&pack); err != nil {
			return nil, err
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&pack); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported rule file extension: %q", ext)
	}
	return pack.Rules, nil
}
