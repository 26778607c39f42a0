package effects

// ID is the stable wire identifier of an effect.
type ID string

const (
	Remove    ID = "remove"
	Swap      ID = "swap"
	Cut       ID = "cut"
	Repeat    ID = "repeat"
	Silence   ID = "silence"
	Reverse   ID = "reverse"
	Randomize ID = "randomize"
)

// Param describes a single numeric, user-adjustable input to an effect.
type Param struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Default int    `json:"default"`
	Minimum int    `json:"minimum"`
	Help    string `json:"help,omitempty"`
}

// Definition is the static metadata of one effect.
type Definition struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`
}

// paramIndex returns the position of the named param, or -1.
func (d *Definition) paramIndex(id string) int {
	for i, p := range d.Params {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Param returns the declaration of the named param.
func (d *Definition) Param(id string) (Param, bool) {
	if i := d.paramIndex(id); i >= 0 {
		return d.Params[i], true
	}
	return Param{}, false
}

// Defaults returns a fresh value set holding every param's default.
func (d *Definition) Defaults() Values {
	vals := make([]int, len(d.Params))
	for i, p := range d.Params {
		vals[i] = p.Default
	}
	return Values{def: d, vals: vals}
}

// DefaultMap returns the defaults keyed by param id.
func (d *Definition) DefaultMap() map[string]int {
	return d.Defaults().Map()
}
