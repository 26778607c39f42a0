package hcl

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decodeParams evaluates every attribute of an effect block as an integer.
func decodeParams(body hcl.Body, evalCtx *hcl.EvalContext) (map[string]int, error) {
	params := make(map[string]int)
	if body == nil {
		return params, nil
	}

	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	for name, attr := range attrs {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		n, err := decodeInt(val)
		if err != nil {
			return nil, fmt.Errorf("param '%s': %w", name, err)
		}
		params[name] = n
	}
	return params, nil
}

// decodeInt converts a cty value to a Go int, accepting numeric strings the
// way HCL's own type conversion does.
func decodeInt(val cty.Value) (int, error) {
	if val.IsNull() {
		return 0, fmt.Errorf("value must not be null")
	}
	if !val.IsWhollyKnown() {
		return 0, fmt.Errorf("value is not known")
	}

	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %s to number: %w", val.Type().FriendlyName(), err)
	}

	var n int
	if err := gocty.FromCtyValue(num, &n); err != nil {
		return 0, fmt.Errorf("must be a whole number: %w", err)
	}
	return n, nil
}

// evalContext exposes the environment as the `env` object.
func (l *Loader) evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range l.environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
