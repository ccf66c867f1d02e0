package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagguardhq/flagguard/internal/flagguard"
)

func TestExtractWithRegex_Python(t *testing.T) {
	content := []byte(`def handle(request):
    if is_enabled("checkout-v2"):
        return new_checkout()
    if not is_enabled("dark-mode"):
        return light_theme()
`)
	sites := extractWithRegex("handlers.py", content, pythonRegexRules, findContainingFunctionPython)

	require.Len(t, sites, 2)
	assert.Equal(t, "checkout-v2", sites[0].Flag)
	assert.Equal(t, flagguard.PolarityPositive, sites[0].Polarity)
	assert.Equal(t, "handle", sites[0].EnclosingFunction)
	assert.Equal(t, flagguard.CheckKindRegex, sites[0].Kind)

	assert.Equal(t, "dark-mode", sites[1].Flag)
	assert.Equal(t, flagguard.PolarityNegative, sites[1].Polarity)
}

func TestExtractWithRegex_JavaScript(t *testing.T) {
	content := []byte(`function render(user) {
  if (client.variation("new-nav")) {
    return newNav();
  }
}
`)
	sites := extractWithRegex("app.js", content, jsRegexRules, findContainingFunctionJS)
	require.Len(t, sites, 1)
	assert.Equal(t, "new-nav", sites[0].Flag)
	assert.Equal(t, "render", sites[0].EnclosingFunction)
}

func TestIsNegated(t *testing.T) {
	assert.True(t, isNegated(`if not is_enabled("x"):`, 7))
	assert.True(t, isNegated(`if (!isEnabled("x")) {`, 5))
	assert.False(t, isNegated(`if is_enabled("x"):`, 3))
}
