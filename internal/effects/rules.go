package effects

import "fmt"

// validate applies the effect-specific cross-param rule.
func validate(v Values) error {
	switch v.def.ID {
	case Swap:
		x, y, group := v.Get("x_period"), v.Get("y_period"), v.Get("group_size")
		if x == y {
			return &ValidationError{Effect: Swap, Message: "Both beats are the same. Try changing one of them."}
		}
		if x > group || y > group {
			return &ValidationError{
				Effect:  Swap,
				Message: "One or both beat numbers are too high. Try increasing the beats per measure or decreasing the beat numbers.",
			}
		}
		return nil
	case Cut:
		take, pieces := v.Get("take_index"), v.Get("denominator")
		if take > pieces {
			return &ValidationError{
				Effect:  Cut,
				Message: fmt.Sprintf("Can't take piece #%d of a beat that's only being divided into %d parts.", take, pieces),
			}
		}
		return nil
	case Remove, Repeat, Silence, Reverse, Randomize:
		return nil
	}
	panic(fmt.Sprintf("effects: no rule for effect '%s'", v.def.ID))
}

// serialize maps UI-space values to the backend's wire values.
func serialize(v Values) map[string]int {
	out := v.Map()
	switch v.def.ID {
	case Cut:
		// "Take Piece #" is 1-based in the UI, the backend indexes from 0.
		out["take_index"]--
	case Remove, Swap, Repeat, Silence, Reverse, Randomize:
	default:
		panic(fmt.Sprintf("effects: no serializer for effect '%s'", v.def.ID))
	}
	return out
}
