package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsString(t *testing.T) {
	require.Equal(t, "", AsString(nil))
	require.Equal(t, "ent-123", AsString("ent-123"))
	require.Equal(t, "555", AsString(float64(555)))
	require.Equal(t, "1.5", AsString(1.5))
	require.Equal(t, "42", AsString(42))
	require.Equal(t, "42", AsString(int64(42)))
	require.Equal(t, "true", AsString(true))
}

func TestAsInt(t *testing.T) {
	require.Equal(t, 50, AsInt(float64(50)))
	require.Equal(t, 50, AsInt("50"))
	require.Equal(t, 50, AsInt(50))
	require.Equal(t, 0, AsInt("not-a-number"))
	require.Equal(t, 0, AsInt(nil))
}

func TestPutStringOmitsEmpty(t *testing.T) {
	w := map[string]any{}
	putString(w, "name", "Acme")
	putString(w, "subdomain", "")
	require.Equal(t, map[string]any{"name": "Acme"}, w)
}
