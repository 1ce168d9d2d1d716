package cantilever

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadFile reads an Input from a parameter file: YAML for .yaml and .yml,
// TOML otherwise. Unknown keys are rejected so a misspelt limit cannot
// silently fall back to its default.
func LoadFile(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, err
	}
	var in Input
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		in, err = ParseYAML(string(data))
	default:
		in, err = ParseTOML(string(data))
	}
	if err != nil {
		return Input{}, fmt.Errorf("read %s: %w", path, err)
	}
	return in, nil
}

// ParseTOML decodes an in-memory TOML document.
func ParseTOML(doc string) (Input, error) {
	var in Input
	md, err := toml.Decode(doc, &in)
	if err != nil {
		return Input{}, err
	}
	if err := undecoded(md); err != nil {
		return Input{}, err
	}
	return in, nil
}

// ParseYAML decodes an in-memory YAML document.
func ParseYAML(doc string) (Input, error) {
	var in Input
	dec := yaml.NewDecoder(strings.NewReader(doc))
	dec.KnownFields(true)
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return Input{}, fmt.Errorf("%w: empty document", ErrInvalidInput)
		}
		var te *yaml.TypeError
		if errors.As(err, &te) {
			return Input{}, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(te.Errors, "; "))
		}
		return Input{}, err
	}
	return in, nil
}

func undecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return fmt.Errorf("%w: unknown keys %s", ErrInvalidInput, strings.Join(names, ", "))
}
