package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagguardhq/flagguard/internal/flagguard"
	"github.com/flagguardhq/flagguard/internal/flagguard/obslog"
	"github.com/flagguardhq/flagguard/internal/flagguard/satcore"
)

func TestEncode_DisabledFlagIsUnitClause(t *testing.T) {
	disabled, err := flagguard.NewFlag("legacy-ui", flagguard.FlagTypeBoolean, false, defaultVariations())
	require.NoError(t, err)
	fs, err := flagguard.NewFlagSet([]flagguard.Flag{disabled})
	require.NoError(t, err)

	solver := satcore.New(obslog.NewNop())
	theory := Encode(solver, fs)

	assert.Equal(t, []string{"legacy-ui"}, theory.Variables)
	ok, err := solver.CheckAssignment(map[string]bool{"legacy-ui": true})
	require.NoError(t, err)
	assert.False(t, ok, "a disabled flag must never be satisfiable as enabled")
}

func TestEncode_DependencyIsImplication(t *testing.T) {
	checkout, err := flagguard.NewFlag("checkout-v2", flagguard.FlagTypeBoolean, true, defaultVariations(),
		flagguard.WithDependencies([]string{"payments-v2"}))
	require.NoError(t, err)
	payments, err := flagguard.NewFlag("payments-v2", flagguard.FlagTypeBoolean, false, defaultVariations())
	require.NoError(t, err)
	fs, err := flagguard.NewFlagSet([]flagguard.Flag{checkout, payments})
	require.NoError(t, err)

	solver := satcore.New(obslog.NewNop())
	Encode(solver, fs)

	ok, err := solver.CheckAssignment(map[string]bool{"checkout-v2": true, "payments-v2": false})
	require.NoError(t, err)
	assert.False(t, ok, "checkout-v2 cannot be enabled while its required dependency is disabled")
}

func TestEncode_ExclusionGroupIsPairwiseMutex(t *testing.T) {
	premium, err := flagguard.NewFlag("premium", flagguard.FlagTypeBoolean, true, defaultVariations())
	require.NoError(t, err)
	freeTier, err := flagguard.NewFlag("free-tier", flagguard.FlagTypeBoolean, true, defaultVariations())
	require.NoError(t, err)
	fs, err := flagguard.NewFlagSet([]flagguard.Flag{premium, freeTier})
	require.NoError(t, err)

	solver := satcore.New(obslog.NewNop())
	Encode(solver, fs, flagguard.WithExclusionGroup("premium", "free-tier"))

	ok, err := solver.CheckAssignment(map[string]bool{"premium": true, "free-tier": true})
	require.NoError(t, err)
	assert.False(t, ok, "an exclusion group must forbid all members being active together")

	ok, err = solver.CheckAssignment(map[string]bool{"premium": true, "free-tier": false})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEncode_RequiredFlagIsUnitClause(t *testing.T) {
	g, err := flagguard.NewFlag("g", flagguard.FlagTypeBoolean, true, defaultVariations())
	require.NoError(t, err)
	fs, err := flagguard.NewFlagSet([]flagguard.Flag{g})
	require.NoError(t, err)

	solver := satcore.New(obslog.NewNop())
	Encode(solver, fs, flagguard.WithRequired("g"))

	ok, err := solver.CheckAssignment(map[string]bool{"g": false})
	require.NoError(t, err)
	assert.False(t, ok, "a required flag must never be satisfiable as disabled")
}

func defaultVariations() []flagguard.Variation {
	return []flagguard.Variation{{Name: "on", Value: true}, {Name: "off", Value: false}}
}
