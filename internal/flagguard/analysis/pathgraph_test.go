package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagguardhq/flagguard/internal/flagguard"
	"github.com/flagguardhq/flagguard/internal/flagguard/obslog"
)

func newTestFlagSet(t *testing.T, flags ...flagguard.Flag) flagguard.FlagSet {
	t.Helper()
	fs, err := flagguard.NewFlagSet(flags)
	require.NoError(t, err)
	return fs
}

func TestPathAnalyzer_DeclaredEdge(t *testing.T) {
	checkout, _ := flagguard.NewFlag("checkout-v2", flagguard.FlagTypeBoolean, true, nil,
		flagguard.WithDependencies([]string{"payments-v2"}))
	fs := newTestFlagSet(t, checkout)

	analyzer := NewPathAnalyzer(obslog.NewNop(), fs, flagguard.CheckSiteSet{})
	graph := analyzer.Analyze()

	require.Len(t, graph.Edges, 1)
	assert.Equal(t, flagguard.EdgeRequires, graph.Edges[0].Kind)
	assert.Equal(t, flagguard.OriginExplicit, graph.Edges[0].Origin)
	assert.Equal(t, "checkout-v2", graph.Edges[0].From)
	assert.Equal(t, "payments-v2", graph.Edges[0].To)
}

func TestPathAnalyzer_InferredEdgeAtThreshold(t *testing.T) {
	fs := newTestFlagSet(t)
	sites := flagguard.CheckSiteSet{}
	for i := 0; i < coOccurrenceThreshold; i++ {
		sites.Sites = append(sites.Sites,
			flagguard.CheckSite{Flag: "a", File: "f.py", Line: i*2 + 1, EnclosingFunction: fmt.Sprintf("h%d", i)},
			flagguard.CheckSite{Flag: "b", File: "f.py", Line: i*2 + 2, EnclosingFunction: fmt.Sprintf("h%d", i)},
		)
	}

	analyzer := NewPathAnalyzer(obslog.NewNop(), fs, sites)
	graph := analyzer.Analyze()

	require.Len(t, graph.Edges, 1)
	assert.Equal(t, flagguard.EdgeImplies, graph.Edges[0].Kind)
	assert.Equal(t, flagguard.OriginInferred, graph.Edges[0].Origin)
	assert.Equal(t, coOccurrenceThreshold, graph.Edges[0].Weight)
}

func TestPathAnalyzer_BelowThresholdNoEdge(t *testing.T) {
	fs := newTestFlagSet(t)
	sites := flagguard.CheckSiteSet{Sites: []flagguard.CheckSite{
		{Flag: "a", File: "f.py", Line: 1, EnclosingFunction: "h"},
		{Flag: "b", File: "f.py", Line: 2, EnclosingFunction: "h"},
	}}

	analyzer := NewPathAnalyzer(obslog.NewNop(), fs, sites)
	graph := analyzer.Analyze()
	assert.Empty(t, graph.Edges)
}

func TestPathAnalyzer_IsolatedFlagsStillReportedAsNodes(t *testing.T) {
	a, _ := flagguard.NewFlag("a", flagguard.FlagTypeBoolean, true, nil)
	b, _ := flagguard.NewFlag("b", flagguard.FlagTypeBoolean, true, nil)
	fs := newTestFlagSet(t, a, b)

	analyzer := NewPathAnalyzer(obslog.NewNop(), fs, flagguard.CheckSiteSet{})
	graph := analyzer.Analyze()

	assert.Empty(t, graph.Edges)
	view := graph.NodeEdgeList()
	assert.ElementsMatch(t, []string{"a", "b"}, view["nodes"])
}

func TestFindCycles_DetectsSimpleCycle(t *testing.T) {
	edges := []flagguard.DependencyEdge{
		{From: "a", To: "b", Kind: flagguard.EdgeRequires, Origin: flagguard.OriginExplicit},
		{From: "b", To: "c", Kind: flagguard.EdgeRequires, Origin: flagguard.OriginExplicit},
		{From: "c", To: "a", Kind: flagguard.EdgeRequires, Origin: flagguard.OriginExplicit},
	}
	cycles := findCycles([]string{"a", "b", "c"}, edges)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a", "b", "c"}, cycles[0])
}

func TestFindCycles_NoCycleInDAG(t *testing.T) {
	edges := []flagguard.DependencyEdge{
		{From: "a", To: "b", Kind: flagguard.EdgeRequires, Origin: flagguard.OriginExplicit},
		{From: "b", To: "c", Kind: flagguard.EdgeRequires, Origin: flagguard.OriginExplicit},
	}
	cycles := findCycles([]string{"a", "b", "c"}, edges)
	assert.Empty(t, cycles)
}

func TestPathAnalyzer_FlagsAffectingFileAndFilesAffectedByFlag(t *testing.T) {
	fs := newTestFlagSet(t)
	sites := flagguard.CheckSiteSet{Sites: []flagguard.CheckSite{
		{Flag: "a", File: "x.py", Line: 1},
		{Flag: "b", File: "x.py", Line: 2},
		{Flag: "a", File: "y.py", Line: 1},
	}}
	analyzer := NewPathAnalyzer(obslog.NewNop(), fs, sites)

	assert.Equal(t, []string{"a", "b"}, analyzer.FlagsAffectingFile("x.py"))
	assert.Equal(t, []string{"x.py", "y.py"}, analyzer.FilesAffectedByFlag("a"))
}
