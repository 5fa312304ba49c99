package hcl

import "github.com/hashicorp/hcl/v2"

// descriptorFile is the gohcl schema of one HCL descriptor. Unknown
// attributes and blocks land in Remain and are ignored.
type descriptorFile struct {
	Name      string         `hcl:"name"`
	Builder   string         `hcl:"builder"`
	Args      []string       `hcl:"args,optional"`
	Env       hcl.Expression `hcl:"env,optional"`
	InputSrcs []string       `hcl:"input_srcs,optional"`
	System    string         `hcl:"system"`
	Inputs    []*inputBlock  `hcl:"input,block"`
	Outputs   []*outputBlock `hcl:"output,block"`
	Remain    hcl.Body       `hcl:",remain"`
}

// inputBlock declares one input derivation, labelled by its descriptor path.
type inputBlock struct {
	Path           string         `hcl:"path,label"`
	Outputs        []string       `hcl:"outputs,optional"`
	DynamicOutputs hcl.Expression `hcl:"dynamic_outputs,optional"`
	Remain         hcl.Body       `hcl:",remain"`
}

// outputBlock declares one output, labelled by its name.
type outputBlock struct {
	Name   string   `hcl:"name,label"`
	Path   string   `hcl:"path"`
	Remain hcl.Body `hcl:",remain"`
}

// configFile is the gohcl schema of the optional smolix configuration file.
type configFile struct {
	LogLevel        *string  `hcl:"log_level,optional"`
	LogFormat       *string  `hcl:"log_format,optional"`
	Parallelism     *int     `hcl:"parallelism,optional"`
	StrictNames     *bool    `hcl:"strict_names,optional"`
	StopOnError     *bool    `hcl:"stop_on_error,optional"`
	HealthcheckPort *int     `hcl:"healthcheck_port,optional"`
	Remain          hcl.Body `hcl:",remain"`
}
