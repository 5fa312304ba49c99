package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ConfigFile holds the values set in an HCL configuration file. Nil fields
// were not set and leave the corresponding default untouched.
type ConfigFile struct {
	LogLevel        *string
	LogFormat       *string
	Parallelism     *int
	StrictNames     *bool
	StopOnError     *bool
	HealthcheckPort *int
}

// LoadConfigFile parses the configuration file at path.
func LoadConfigFile(path string) (*ConfigFile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var root configFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	return &ConfigFile{
		LogLevel:        root.LogLevel,
		LogFormat:       root.LogFormat,
		Parallelism:     root.Parallelism,
		StrictNames:     root.StrictNames,
		StopOnError:     root.StopOnError,
		HealthcheckPort: root.HealthcheckPort,
	}, nil
}
