package derivation

import (
	"reflect"
	"sort"
)

// InputRef declares which outputs of another derivation are consumed.
type InputRef struct {
	Outputs        []string          `json:"outputs"`
	DynamicOutputs map[string]string `json:"dynamicOutputs"`
}

// Output is a single declared output of a derivation.
type Output struct {
	Path string `json:"path"`
}

// Derivation is the decoded shape of a descriptor file.
type Derivation struct {
	// Name is the human-readable identity and the deduplication key used by
	// the resolver.
	Name    string            `json:"name"`
	Builder string            `json:"builder"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
	// InputDerivations is keyed by the descriptor path of each input.
	InputDerivations map[string]InputRef `json:"inputDrvs"`
	InputSources     []string            `json:"inputSrcs"`
	Outputs          map[string]Output   `json:"outputs"`
	System           string              `json:"system"`
}

// InputPaths returns the keys of InputDerivations in sorted order.
func (d *Derivation) InputPaths() []string {
	paths := make([]string, 0, len(d.InputDerivations))
	for p := range d.InputDerivations {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// OutputNames returns the declared output names in sorted order.
func (d *Derivation) OutputNames() []string {
	names := make([]string, 0, len(d.Outputs))
	for n := range d.Outputs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether two descriptors carry the same content.
func (d *Derivation) Equal(other *Derivation) bool {
	if d == nil || other == nil {
		return d == other
	}
	return reflect.DeepEqual(d, other)
}

// normalize replaces nil collections with empty ones so that descriptors
// decoded from different formats compare equal.
func (d *Derivation) normalize() {
	if d.Args == nil {
		d.Args = []string{}
	}
	if d.Env == nil {
		d.Env = map[string]string{}
	}
	if d.InputDerivations == nil {
		d.InputDerivations = map[string]InputRef{}
	}
	for k, ref := range d.InputDerivations {
		if ref.Outputs == nil {
			ref.Outputs = []string{}
		}
		if ref.DynamicOutputs == nil {
			ref.DynamicOutputs = map[string]string{}
		}
		d.InputDerivations[k] = ref
	}
	if d.InputSources == nil {
		d.InputSources = []string{}
	}
	if d.Outputs == nil {
		d.Outputs = map[string]Output{}
	}
}

// Finalize validates the required fields and normalizes empty collections.
// Codecs outside this package call it before handing a descriptor out.
func Finalize(d *Derivation) error {
	if err := d.validate(); err != nil {
		return err
	}
	d.normalize()
	return nil
}

func (d *Derivation) validate() error {
	missing := func(field string) error {
		return &FieldError{Field: field}
	}
	switch {
	case d.Name == "":
		return missing("name")
	case d.Builder == "":
		return missing("builder")
	case d.System == "":
		return missing("system")
	}
	for name, out := range d.Outputs {
		if out.Path == "" {
			return missing("outputs." + name + ".path")
		}
	}
	return nil
}
