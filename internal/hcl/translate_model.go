// This file translates the gohcl schema structs from schema.go into the
// format-agnostic derivation model.

package hcl

import (
	"fmt"

	"github.com/specialistvlad/smolix/internal/derivation"
)

// translateDescriptor converts a decoded HCL descriptor into a Derivation.
func translateDescriptor(f *descriptorFile) (*derivation.Derivation, error) {
	env, err := stringMap(f.Env, "env")
	if err != nil {
		return nil, err
	}

	drv := &derivation.Derivation{
		Name:             f.Name,
		Builder:          f.Builder,
		Args:             f.Args,
		Env:              env,
		InputDerivations: make(map[string]derivation.InputRef, len(f.Inputs)),
		InputSources:     f.InputSrcs,
		Outputs:          make(map[string]derivation.Output, len(f.Outputs)),
		System:           f.System,
	}

	for _, in := range f.Inputs {
		if _, dup := drv.InputDerivations[in.Path]; dup {
			return nil, fmt.Errorf("input %q declared more than once", in.Path)
		}
		dyn, err := stringMap(in.DynamicOutputs, "dynamic_outputs")
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", in.Path, err)
		}
		drv.InputDerivations[in.Path] = derivation.InputRef{
			Outputs:        in.Outputs,
			DynamicOutputs: dyn,
		}
	}

	for _, out := range f.Outputs {
		if _, dup := drv.Outputs[out.Name]; dup {
			return nil, fmt.Errorf("output %q declared more than once", out.Name)
		}
		drv.Outputs[out.Name] = derivation.Output{Path: out.Path}
	}

	if err := derivation.Finalize(drv); err != nil {
		return nil, err
	}
	return drv, nil
}
