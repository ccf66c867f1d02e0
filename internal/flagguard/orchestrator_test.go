package flagguard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagguardhq/flagguard/internal/flagguard/obslog"
)

type fakeEncoder struct {
	conflicts []Conflict
	dead      []DeadRegion
	graph     Graph
}

func (f *fakeEncoder) Encode(fs FlagSet, opts ...EncodeOption) Theory { return Theory{} }
func (f *fakeEncoder) DetectConflicts(flags []string, sitesByFlag map[string][]CheckSite) ([]Conflict, error) {
	return f.conflicts, nil
}
func (f *fakeEncoder) FindDeadRegions(sites []CheckSite) ([]DeadRegion, error) { return f.dead, nil }
func (f *fakeEncoder) AnalyzePaths(fs FlagSet, sites CheckSiteSet) Graph       { return f.graph }

func TestAnalyzer_Run_Success(t *testing.T) {
	flag, err := NewFlag("checkout-v2", FlagTypeBoolean, true, nil)
	require.NoError(t, err)
	fs, err := NewFlagSet([]Flag{flag})
	require.NoError(t, err)

	configs := func(content []byte) (FlagSet, error) { return fs, nil }
	scan := func(ctx context.Context, root string) (CheckSiteSet, int, error) {
		return CheckSiteSet{Sites: []CheckSite{{Flag: "checkout-v2", File: "a.py", Line: 1}}}, 1, nil
	}
	encoder := &fakeEncoder{conflicts: []Conflict{{ID: "C1"}}}
	solver := func() Encoder { return encoder }

	analyzer := NewAnalyzer(obslog.NewNop(), configs, scan, solver)
	report, err := analyzer.Run(context.Background(), []byte("{}"), ".")
	require.NoError(t, err)

	assert.Equal(t, 1, report.FlagsAnalyzed)
	assert.Equal(t, 1, report.FilesScanned)
	assert.Len(t, report.Conflicts, 1)
	assert.NotEmpty(t, report.ExecutiveSummary)
	assert.False(t, report.Timestamp.IsZero())
}

func TestAnalyzer_Run_ConfigParseFailurePropagates(t *testing.T) {
	configs := func(content []byte) (FlagSet, error) { return FlagSet{}, errors.New("boom") }
	scan := func(ctx context.Context, root string) (CheckSiteSet, int, error) { return CheckSiteSet{}, 0, nil }
	solver := func() Encoder { return &fakeEncoder{} }

	analyzer := NewAnalyzer(obslog.NewNop(), configs, scan, solver)
	_, err := analyzer.Run(context.Background(), nil, ".")
	require.Error(t, err)
}

func TestAnalyzer_Run_ScanFailurePropagates(t *testing.T) {
	configs := func(content []byte) (FlagSet, error) { return FlagSet{}, nil }
	scan := func(ctx context.Context, root string) (CheckSiteSet, int, error) {
		return CheckSiteSet{}, 0, errors.New("permission denied")
	}
	solver := func() Encoder { return &fakeEncoder{} }

	analyzer := NewAnalyzer(obslog.NewNop(), configs, scan, solver)
	_, err := analyzer.Run(context.Background(), nil, ".")
	require.Error(t, err)
}
