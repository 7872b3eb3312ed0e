package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolEncodings(t *testing.T) {
	trueValues := []any{float64(1), 1, int64(1), "1", true}
	for _, v := range trueValues {
		got, err := Bool(v)
		require.NoError(t, err, "value %v (%T)", v, v)
		assert.True(t, got, "value %v (%T)", v, v)
	}

	falseValues := []any{float64(0), 0, int64(0), "0", false}
	for _, v := range falseValues {
		got, err := Bool(v)
		require.NoError(t, err, "value %v (%T)", v, v)
		assert.False(t, got, "value %v (%T)", v, v)
	}
}

func TestBoolRejectsUnrecognized(t *testing.T) {
	rejected := []any{float64(2), "yes", "true", "", "01", 1.5, nil, []any{1}, map[string]any{}}
	for _, v := range rejected {
		_, err := Bool(v)
		assert.Error(t, err, "value %v (%T)", v, v)
	}
}

func TestID(t *testing.T) {
	tests := []struct {
		in   any
		want int64
	}{
		{float64(42), 42},
		{"42", 42},
		{int64(7), 7},
		{3, 3},
	}
	for _, tt := range tests {
		got, err := ID(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	for _, v := range []any{"abc", "12a", 1.5, true, nil, "£5"} {
		_, err := ID(v)
		assert.Error(t, err, "value %v (%T)", v, v)
	}
}

func TestPrice(t *testing.T) {
	got, err := Price("12.50")
	require.NoError(t, err)
	assert.Equal(t, 12.50, got)

	got, err = Price(float64(8))
	require.NoError(t, err)
	assert.Equal(t, 8.0, got)

	for _, v := range []any{"free", "-1", float64(-3), true, nil} {
		_, err := Price(v)
		assert.Error(t, err, "value %v (%T)", v, v)
	}
}

func TestString(t *testing.T) {
	got, err := String("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = String(float64(5))
	assert.Error(t, err)
}
