package effects

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// List returns the catalog in display order. Callers must not modify the
// returned definitions.
func List() []*Definition {
	out := make([]*Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds an effect by its wire id.
func Lookup(id string) (*Definition, bool) {
	for _, def := range catalog {
		if string(def.ID) == id {
			return def, true
		}
	}
	return nil, false
}

// MustLookup is like Lookup but panics when the id is unknown.
func MustLookup(id ID) *Definition {
	def, ok := Lookup(string(id))
	if !ok {
		panic(fmt.Sprintf("effects: %v: %s", ErrUnknownEffect, id))
	}
	return def
}

// Defaults returns a fresh value set holding def's defaults.
func Defaults(def *Definition) Values {
	return def.Defaults()
}

// Validate reports the effect's cross-param error for v, or nil if v is
// acceptable. Values built for another effect cause a panic.
func Validate(def *Definition, v Values) error {
	v.belongsTo(def)
	return validate(v)
}

// Serialize maps v to the payload values the backend expects.
func Serialize(def *Definition, v Values) map[string]int {
	v.belongsTo(def)
	return serialize(v)
}

// Resolve starts from the effect's defaults and overlays the given values.
func Resolve(id string, overrides map[string]int) (Values, error) {
	def, ok := Lookup(id)
	if !ok {
		return Values{}, fmt.Errorf("%w: '%s'", ErrUnknownEffect, id)
	}
	v := def.Defaults()
	for _, k := range sortedKeys(overrides) {
		if def.paramIndex(k) < 0 {
			return Values{}, fmt.Errorf("%w: effect '%s' has no param '%s'", ErrUnknownParam, id, k)
		}
		v = v.With(k, overrides[k])
	}
	return v, nil
}

// CheckBounds reports the first value that is below its param's minimum.
func CheckBounds(v Values) error {
	for i, p := range v.def.Params {
		if v.vals[i] < p.Minimum {
			return &ValidationError{
				Effect:  v.def.ID,
				Message: fmt.Sprintf("%s must be at least %d.", p.Name, p.Minimum),
			}
		}
	}
	return nil
}

// Payload is one serialized effect as submitted to the backend.
type Payload struct {
	Type   ID
	Params map[string]int
}

// MarshalJSON flattens the params next to the "type" key.
func (p Payload) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Params)+1)
	for k, v := range p.Params {
		m[k] = v
	}
	m["type"] = p.Type
	return json.Marshal(m)
}

// Prepare runs the whole submission path for one effect: defaults, bounds,
// validation and serialization.
func Prepare(id string, overrides map[string]int) (Payload, error) {
	v, err := Resolve(id, overrides)
	if err != nil {
		return Payload{}, err
	}
	if err := CheckBounds(v); err != nil {
		return Payload{}, err
	}
	if err := validate(v); err != nil {
		return Payload{}, err
	}
	return Payload{Type: v.def.ID, Params: serialize(v)}, nil
}

// Check verifies the catalog invariants and reports every violation found.
func Check() error {
	return checkCatalog(catalog)
}

func checkCatalog(defs []*Definition) error {
	var errs []string
	seen := make(map[ID]struct{}, len(defs))
	for _, def := range defs {
		if strings.TrimSpace(string(def.ID)) == "" {
			errs = append(errs, "effect with empty id")
			continue
		}
		if _, dup := seen[def.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate effect id '%s'", def.ID))
		}
		seen[def.ID] = struct{}{}

		params := make(map[string]struct{}, len(def.Params))
		for _, p := range def.Params {
			if p.ID == "type" {
				errs = append(errs, fmt.Sprintf("effect '%s': param id 'type' is reserved", def.ID))
			}
			if _, dup := params[p.ID]; dup {
				errs = append(errs, fmt.Sprintf("effect '%s': duplicate param id '%s'", def.ID, p.ID))
			}
			params[p.ID] = struct{}{}
			if p.Default < p.Minimum {
				errs = append(errs, fmt.Sprintf("effect '%s', param '%s': default %d is below minimum %d", def.ID, p.ID, p.Default, p.Minimum))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("effect catalog check failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
