package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagguardhq/flagguard/internal/flagguard"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    Dialect
	}{
		{"unleash yaml doc marker", "---\nfeatures:\n  - name: a\n", DialectUnleash},
		{"unleash features key", "features:\n  - name: a\n", DialectUnleash},
		{"launchdarkly shape", `{"flags": {"a": {"variations": [true,false]}}}`, DialectLaunchDarkly},
		{"generic fallback", `{"flags": [{"name": "a"}]}`, DialectGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Detect([]byte(tc.content)))
		})
	}
}

func TestGenericParser(t *testing.T) {
	content := []byte(`{
		"flags": [
			{"name": "checkout-v2", "enabled": true, "dependencies": ["payments-v2"]},
			{"name": "payments-v2", "enabled": false}
		]
	}`)

	fs, err := (&GenericParser{}).Parse(content)
	require.NoError(t, err)
	require.Equal(t, 2, fs.Len())

	f, ok := fs.Get("checkout-v2")
	require.True(t, ok)
	assert.True(t, f.Enabled)
	assert.Equal(t, []string{"payments-v2"}, f.Dependencies)
	assert.Equal(t, "on", f.Default)
}

func TestGenericParser_MissingName(t *testing.T) {
	_, err := (&GenericParser{}).Parse([]byte(`{"flags": [{"enabled": true}]}`))
	require.Error(t, err)
}

func TestLaunchDarklyParser(t *testing.T) {
	content := []byte(`{
		"flags": {
			"checkout-v2": {
				"on": true,
				"variations": [true, false],
				"fallthrough": {"variation": 0},
				"prerequisites": [{"key": "payments-v2"}],
				"rules": [{"id": "r1", "clauses": [], "variation": 1, "rollout": {"variations": [{"weight": 50000}]}}]
			}
		}
	}`)

	fs, err := (&LaunchDarklyParser{}).Parse(content)
	require.NoError(t, err)
	require.Equal(t, 1, fs.Len())

	f, ok := fs.Get("checkout-v2")
	require.True(t, ok)
	assert.Equal(t, flagguard.FlagTypeBoolean, f.Type)
	assert.Equal(t, []string{"payments-v2"}, f.Dependencies)
	require.Len(t, f.Rules, 1)
	assert.Equal(t, 50.0, f.Rules[0].RolloutPercentage)
}

func TestUnleashParser(t *testing.T) {
	content := []byte(`
features:
  - name: checkout-v2
    enabled: true
    strategies:
      - name: gradualRollout
        parameters:
          percentage: "25"
`)

	fs, err := (&UnleashParser{}).Parse(content)
	require.NoError(t, err)
	require.Equal(t, 1, fs.Len())

	f, ok := fs.Get("checkout-v2")
	require.True(t, ok)
	assert.True(t, f.Enabled)
	require.Len(t, f.Rules, 1)
}
