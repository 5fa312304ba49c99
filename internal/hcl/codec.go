package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/smolix/internal/derivation"
)

// Codec is the HCL implementation of derivation.Codec.
type Codec struct{}

// NewCodec creates a new HCL descriptor codec.
func NewCodec() *Codec {
	return &Codec{}
}

var _ derivation.Codec = (*Codec)(nil)

// Decode parses data as an HCL descriptor. path is only used in diagnostics.
func (c *Codec) Decode(path string, data []byte) (*derivation.Derivation, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %w", diags)
	}

	var root descriptorFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %w", diags)
	}

	return translateDescriptor(&root)
}

// Codecs returns the default derivation codecs extended with HCL.
func Codecs() derivation.Codecs {
	codecs := derivation.DefaultCodecs()
	codecs[".hcl"] = NewCodec()
	return codecs
}
