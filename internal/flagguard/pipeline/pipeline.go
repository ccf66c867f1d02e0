// Package pipeline wires flagguard.Analyzer's collaborator interfaces
// to the concrete parsers/scanner/constraint/satcore/analysis
// packages. It exists purely to break the import cycle those packages
// would otherwise form with flagguard itself (they depend on
// flagguard's model types; flagguard's Analyzer depends on their
// behavior) — cmd/flagguard imports this package, not the pieces
// directly.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/flagguardhq/flagguard/internal/flagguard"
	"github.com/flagguardhq/flagguard/internal/flagguard/analysis"
	"github.com/flagguardhq/flagguard/internal/flagguard/constraint"
	"github.com/flagguardhq/flagguard/internal/flagguard/parsers"
	"github.com/flagguardhq/flagguard/internal/flagguard/satcore"
	"github.com/flagguardhq/flagguard/internal/flagguard/scanner"
)

// ConfigLoader returns a flagguard.ConfigLoader that auto-detects the
// config dialect and parses it.
func ConfigLoader() flagguard.ConfigLoader {
	return func(content []byte) (flagguard.FlagSet, error) {
		return parsers.ParseAuto(content)
	}
}

// SourceScanner returns a flagguard.SourceScanner backed by
// scanner.Scanner.
func SourceScanner(log *zap.SugaredLogger, opts scanner.Options) flagguard.SourceScanner {
	s := scanner.New(log, opts)
	return func(ctx context.Context, root string) (flagguard.CheckSiteSet, int, error) {
		return s.ScanDirectory(ctx, root, opts)
	}
}

// SolverFactory returns a flagguard.SolverFactory that builds a fresh
// satEncoder (satcore.Solver + constraint.Encode + the three analysis
// phases) for each analysis run.
func SolverFactory(log *zap.SugaredLogger) flagguard.SolverFactory {
	return func() flagguard.Encoder {
		return &satEncoder{log: log, solver: satcore.New(log)}
	}
}

type satEncoder struct {
	log    *zap.SugaredLogger
	solver satcore.Solver
}

func (e *satEncoder) Encode(fs flagguard.FlagSet, opts ...flagguard.EncodeOption) flagguard.Theory {
	return constraint.Encode(e.solver, fs, opts...)
}

func (e *satEncoder) DetectConflicts(flags []string, sitesByFlag map[string][]flagguard.CheckSite) ([]flagguard.Conflict, error) {
	detector := analysis.NewConflictDetector(e.log, e.solver)
	return detector.DetectAll(flags, sitesByFlag)
}

func (e *satEncoder) FindDeadRegions(sites []flagguard.CheckSite) ([]flagguard.DeadRegion, error) {
	finder := analysis.NewDeadCodeFinder(e.log, e.solver)
	return finder.FindDeadRegions(sites)
}

func (e *satEncoder) AnalyzePaths(fs flagguard.FlagSet, sites flagguard.CheckSiteSet) flagguard.Graph {
	return analysis.NewPathAnalyzer(e.log, fs, sites).Analyze()
}
