package flagguard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphNodeEdgeList(t *testing.T) {
	g := Graph{
		Edges: []DependencyEdge{
			{From: "checkout-v2", To: "payments-v2", Kind: EdgeRequires, Origin: OriginExplicit, Weight: 1},
		},
		Cycles: [][]string{},
	}
	view := g.NodeEdgeList()
	assert.ElementsMatch(t, []string{"checkout-v2", "payments-v2"}, view["nodes"])
	edges := view["edges"].([]map[string]any)
	assert.Len(t, edges, 1)
	assert.Equal(t, "checkout-v2", edges[0]["from"])
	assert.Equal(t, "requires", edges[0]["kind"])
	assert.Equal(t, "explicit", edges[0]["origin"])
}

func TestReportTree(t *testing.T) {
	r := Report{
		FlagsAnalyzed: 2,
		FilesScanned:  1,
		Conflicts:     []Conflict{{ID: "C1", Flags: []string{"a", "b"}, Severity: SeverityCritical}},
		DeadRegions:   []DeadRegion{{Flag: "legacy", File: "a.py", StartLine: 3, EndLine: 3, Severity: SeverityHigh}},
	}
	tree := r.Tree()
	assert.Equal(t, 2, tree["flags_analyzed"])
	assert.Equal(t, 1, tree["files_scanned"])
	conflicts := tree["conflicts"].([]map[string]any)
	assert.Len(t, conflicts, 1)
	assert.Equal(t, "C1", conflicts[0]["id"])
}
