package session

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/beatfx/internal/effects"
)

func TestNew_SelectsFirstEffectWithDefaults(t *testing.T) {
	t.Parallel()

	s := New()
	require.Equal(t, effects.Remove, s.Selected().ID)
	require.Equal(t, map[string]int{"period": 2}, s.Values())
	require.NoError(t, s.Error())
}

func TestSelect_DoesNotPersistValues(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Set("period", 100))
	require.Equal(t, 100, s.Values()["period"])

	require.NoError(t, s.Select("reverse"))
	require.Equal(t, map[string]int{"period": 2}, s.Values())

	require.NoError(t, s.Select("remove"))
	require.Equal(t, map[string]int{"period": 2}, s.Values(), "switching back must reapply defaults")
}

func TestSelect_Unknown(t *testing.T) {
	t.Parallel()

	s := New()
	require.ErrorIs(t, s.Select("chorus"), effects.ErrUnknownEffect)
	require.Equal(t, effects.Remove, s.Selected().ID)
}

func TestSet_UnknownParam(t *testing.T) {
	t.Parallel()

	s := New()
	require.ErrorIs(t, s.Set("times", 3), effects.ErrUnknownParam)
}

func TestPayload_BlockedWhileInvalid(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Select("swap"))
	require.NoError(t, s.Set("y_period", 2))

	require.Error(t, s.Error())
	_, err := s.Payload()
	require.EqualError(t, err, "Both beats are the same. Try changing one of them.")

	require.NoError(t, s.Set("y_period", 3))
	require.NoError(t, s.Error())
	p, err := s.Payload()
	require.NoError(t, err)
	require.Equal(t, effects.Swap, p.Type)
	require.Equal(t, map[string]int{"x_period": 2, "y_period": 3, "group_size": 4}, p.Params)
}

func TestPayload_CutIsZeroBased(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Select("cut"))
	require.NoError(t, s.Set("take_index", 2))

	p, err := s.Payload()
	require.NoError(t, err)
	require.Equal(t, 1, p.Params["take_index"])
}

func TestUpdate_AllOrNothing(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Select("cut"))

	err := s.Update(map[string]int{"denominator": 4, "tempo": 120})
	require.ErrorIs(t, err, effects.ErrUnknownParam)
	require.Equal(t, map[string]int{"period": 2, "denominator": 2, "take_index": 1}, s.Values())

	require.NoError(t, s.Update(map[string]int{"denominator": 4, "take_index": 3}))
	require.Equal(t, map[string]int{"period": 2, "denominator": 4, "take_index": 3}, s.Values())
}

func TestState_ReportsValidationError(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Select("swap"))
	require.NoError(t, s.Set("y_period", 2))

	st := s.State()
	require.Equal(t, effects.Swap, st.Effect)
	require.Equal(t, map[string]int{"x_period": 2, "y_period": 2, "group_size": 4}, st.Values)
	require.EqualError(t, st.Err, "Both beats are the same. Try changing one of them.")
}
