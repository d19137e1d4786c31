package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/forge/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	a := domain.NewInternedString("Core")
	b := domain.NewInternedString("Core")

	// Identical strings share one handle.
	assert.Equal(t, a.Value(), b.Value())
	assert.Equal(t, "Core", a.String())
}

func TestInternedString_ZeroValue(t *testing.T) {
	var zero domain.InternedString
	assert.Equal(t, "", zero.String())
}

func TestInternedString_JSON(t *testing.T) {
	t.Run("bare value round-trips", func(t *testing.T) {
		original := domain.NewInternedString("AppTests")

		data, err := json.Marshal(original)
		require.NoError(t, err)
		assert.Equal(t, `"AppTests"`, string(data))

		var decoded domain.InternedString
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, original.String(), decoded.String())
	})

	t.Run("struct field round-trips", func(t *testing.T) {
		type record struct {
			Name domain.InternedString `json:"name"`
		}

		original := record{Name: domain.NewInternedString("app")}

		data, err := json.Marshal(original)
		require.NoError(t, err)
		assert.Equal(t, `{"name":"app"}`, string(data))

		var decoded record
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "app", decoded.Name.String())
	})
}

func TestNewInternedStrings(t *testing.T) {
	t.Run("preserves order and values", func(t *testing.T) {
		names := []string{"Core", "App", "AppTests"}

		interned := domain.NewInternedStrings(names)

		require.Len(t, interned, len(names))
		for i, want := range names {
			assert.Equal(t, want, interned[i].String())
		}
	})

	t.Run("empty slice yields empty slice", func(t *testing.T) {
		assert.Empty(t, domain.NewInternedStrings(nil))
		assert.Empty(t, domain.NewInternedStrings([]string{}))
	})

	t.Run("duplicates share a handle", func(t *testing.T) {
		interned := domain.NewInternedStrings([]string{"Core", "Core"})
		require.Len(t, interned, 2)
		assert.Equal(t, interned[0].Value(), interned[1].Value())
	})
}
