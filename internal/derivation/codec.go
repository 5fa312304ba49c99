package derivation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"
)

// Codec decodes the raw bytes of one descriptor file.
type Codec interface {
	Decode(path string, data []byte) (*Derivation, error)
}

// CodecFunc adapts a function to the Codec interface.
type CodecFunc func(path string, data []byte) (*Derivation, error)

func (f CodecFunc) Decode(path string, data []byte) (*Derivation, error) {
	return f(path, data)
}

// Codecs maps a lower-case file extension (with the dot) to a Codec.
type Codecs map[string]Codec

// DefaultCodecs returns the codecs implemented in this package.
func DefaultCodecs() Codecs {
	return Codecs{
		".json": JSON,
		".yaml": YAML,
		".yml":  YAML,
	}
}

// For selects the codec for path. Unknown extensions fall back to JSON, which
// is what the store writes for `.drv.json` and extension-less files.
func (c Codecs) For(path string) Codec {
	if codec, ok := c[strings.ToLower(filepath.Ext(path))]; ok {
		return codec
	}
	return JSON
}

// JSON decodes descriptors in the store's JSON representation.
var JSON Codec = CodecFunc(decodeJSON)

// YAML decodes descriptors written as YAML using the same field names as JSON.
var YAML Codec = CodecFunc(decodeYAML)

func decodeJSON(path string, data []byte) (*Derivation, error) {
	var drv Derivation
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&drv); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := Finalize(&drv); err != nil {
		return nil, err
	}
	return &drv, nil
}

func decodeYAML(path string, data []byte) (*Derivation, error) {
	var drv Derivation
	if err := yaml.Unmarshal(data, &drv); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := Finalize(&drv); err != nil {
		return nil, err
	}
	return &drv, nil
}
