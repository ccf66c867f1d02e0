package flagguard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFlag(t *testing.T) {
	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewFlag("", FlagTypeBoolean, true, nil)
		require.Error(t, err)
	})

	t.Run("rejects unknown default variation", func(t *testing.T) {
		_, err := NewFlag("checkout-v2", FlagTypeBoolean, true,
			[]Variation{{Name: "on", Value: true}, {Name: "off", Value: false}},
			WithDefault("missing"),
		)
		require.Error(t, err)
	})

	t.Run("accepts a well-formed flag", func(t *testing.T) {
		f, err := NewFlag("checkout-v2", FlagTypeBoolean, true,
			[]Variation{{Name: "on", Value: true}, {Name: "off", Value: false}},
			WithDefault("on"),
			WithDependencies([]string{"payments-v2"}),
		)
		require.NoError(t, err)
		assert.Equal(t, "checkout-v2", f.Name)
		assert.Equal(t, []string{"payments-v2"}, f.Dependencies)
	})
}

func TestFlagSet(t *testing.T) {
	a, _ := NewFlag("a", FlagTypeBoolean, true, defaultBoolVariations())
	b, _ := NewFlag("b", FlagTypeBoolean, false, defaultBoolVariations())

	t.Run("rejects duplicate names", func(t *testing.T) {
		dup, _ := NewFlag("a", FlagTypeBoolean, true, defaultBoolVariations())
		_, err := NewFlagSet([]Flag{a, dup})
		require.Error(t, err)
		var valErr *FlagValidationError
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("looks up by name and lists sorted names", func(t *testing.T) {
		fs, err := NewFlagSet([]Flag{b, a})
		require.NoError(t, err)
		got, ok := fs.Get("a")
		require.True(t, ok)
		assert.Equal(t, a.Name, got.Name)
		assert.Equal(t, []string{"a", "b"}, fs.Names())
	})
}

func defaultBoolVariations() []Variation {
	return []Variation{{Name: "on", Value: true}, {Name: "off", Value: false}}
}
