package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagguardhq/flagguard/internal/flagguard"
	"github.com/flagguardhq/flagguard/internal/flagguard/obslog"
	"github.com/flagguardhq/flagguard/internal/flagguard/satcore"
)

func TestDeadCodeFinder_FindDeadRegions(t *testing.T) {
	solver := satcore.New(obslog.NewNop())
	v := solver.Var("legacy-ui")
	solver.AddClause([]flagguard.Literal{-v}) // always disabled

	finder := NewDeadCodeFinder(obslog.NewNop(), solver)
	sites := []flagguard.CheckSite{
		{Flag: "legacy-ui", File: "a.py", Line: 5, EndLine: 5, Polarity: flagguard.PolarityPositive},
		{Flag: "legacy-ui", File: "a.py", Line: 9, EndLine: 9, Polarity: flagguard.PolarityNegative},
	}

	regions, err := finder.FindDeadRegions(sites)
	require.NoError(t, err)
	require.Len(t, regions, 1, "only the positive check is unreachable; the negative one is always true")
	assert.Equal(t, 5, regions[0].StartLine)
	assert.Equal(t, 5, regions[0].EndLine)
	assert.Contains(t, regions[0].Reason, "always disabled")
}

func TestDeadCodeFinder_SkipsValuePolarity(t *testing.T) {
	solver := satcore.New(obslog.NewNop())
	finder := NewDeadCodeFinder(obslog.NewNop(), solver)

	regions, err := finder.FindDeadRegions([]flagguard.CheckSite{
		{Flag: "rollout-pct", File: "a.py", Line: 1, Polarity: flagguard.PolarityValue},
	})
	require.NoError(t, err)
	assert.Empty(t, regions)
}

func TestDeadCodeFinder_CheckPath(t *testing.T) {
	solver := satcore.New(obslog.NewNop())
	a := solver.Var("a")
	b := solver.Var("b")
	solver.AddClause([]flagguard.Literal{-a, -b})

	finder := NewDeadCodeFinder(obslog.NewNop(), solver)
	region, err := finder.CheckPath(map[string]bool{"a": true, "b": true}, "a.py", 10, 14)
	require.NoError(t, err)
	require.NotNil(t, region)
	assert.Equal(t, 10, region.StartLine)
	assert.Equal(t, 14, region.EndLine)
}
