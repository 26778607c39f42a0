package effects

import "fmt"

// Values is the set of parameter values for one effect, one entry per
// declared param, in declaration order. The zero value is unusable; obtain
// one from Definition.Defaults, NewValues or Resolve.
type Values struct {
	def  *Definition
	vals []int
}

// NewValues builds a complete value set for def. Every declared param must be
// present in m and m must not hold anything else.
func NewValues(def *Definition, m map[string]int) (Values, error) {
	vals := make([]int, len(def.Params))
	var missing []string
	for i, p := range def.Params {
		n, ok := m[p.ID]
		if !ok {
			missing = append(missing, p.ID)
			continue
		}
		vals[i] = n
	}
	for k := range m {
		if def.paramIndex(k) < 0 {
			return Values{}, fmt.Errorf("%w: effect '%s' has no param '%s'", ErrUnknownParam, def.ID, k)
		}
	}
	if len(missing) > 0 {
		return Values{}, fmt.Errorf("%w: effect '%s' is missing %v", ErrIncomplete, def.ID, missing)
	}
	return Values{def: def, vals: vals}, nil
}

// Effect returns the definition the values belong to.
func (v Values) Effect() *Definition {
	return v.def
}

// Get returns the value of the named param. Asking for a param the effect
// does not declare is a programming error.
func (v Values) Get(id string) int {
	i := v.mustIndex(id)
	return v.vals[i]
}

// With returns a copy of v with one param replaced.
func (v Values) With(id string, n int) Values {
	i := v.mustIndex(id)
	vals := make([]int, len(v.vals))
	copy(vals, v.vals)
	vals[i] = n
	return Values{def: v.def, vals: vals}
}

// Map returns the values keyed by param id.
func (v Values) Map() map[string]int {
	if v.def == nil {
		panic("effects: use of zero Values")
	}
	m := make(map[string]int, len(v.vals))
	for i, p := range v.def.Params {
		m[p.ID] = v.vals[i]
	}
	return m
}

func (v Values) mustIndex(id string) int {
	if v.def == nil {
		panic("effects: use of zero Values")
	}
	i := v.def.paramIndex(id)
	if i < 0 {
		panic(fmt.Sprintf("effects: effect '%s' has no param '%s'", v.def.ID, id))
	}
	return i
}

// belongsTo panics unless v was built for def.
func (v Values) belongsTo(def *Definition) {
	if v.def == nil {
		panic("effects: use of zero Values")
	}
	if v.def.ID != def.ID {
		panic(fmt.Sprintf("effects: values for '%s' used with effect '%s'", v.def.ID, def.ID))
	}
}
