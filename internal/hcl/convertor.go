package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// stringMap evaluates expr without variables and binds the result to a Go
// map of strings. An absent attribute (a null expression) yields an empty map.
func stringMap(expr hcl.Expression, attr string) (map[string]string, error) {
	out := map[string]string{}
	if expr == nil {
		return out, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating %q: %w", attr, diags)
	}
	if val.IsNull() {
		return out, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("attribute %q must be a static value", attr)
	}

	converted, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("attribute %q must be a map of strings: %w", attr, err)
	}
	if converted.LengthInt() == 0 {
		return out, nil
	}
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, fmt.Errorf("binding %q: %w", attr, err)
	}
	return out, nil
}
