package flagguard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Analyzer wires the full pipeline — parsers, scanner, constraint
// encoder, SAT core, and the three analysis phases — the way the
// teacher's Reconciler wires archive/secrets services around a single
// Reconcile entrypoint (internal/dorkly/reconcile.go), but built from
// collaborators passed in explicitly rather than resolved internally.
type Analyzer struct {
	log        *zap.SugaredLogger
	configDeps ConfigLoader
	scanDeps   SourceScanner
	solverDeps SolverFactory
}

// ConfigLoader parses one config document into a FlagSet.
// Implemented by parsers.ParseAuto wired through a thin adapter in
// the pipeline package so this package does not import parsers directly
// (parsers would otherwise need to import flagguard, and flagguard
// would import parsers — NewAnalyzer breaks that cycle by accepting
// the loader as a dependency).
type ConfigLoader func(content []byte) (FlagSet, error)

// SourceScanner extracts check sites from a directory tree.
type SourceScanner func(ctx context.Context, root string) (CheckSiteSet, int, error)

// SolverFactory builds a fresh Encoder (wrapping a new satcore.Solver)
// for one analysis run. It returns the Encoder interface at this layer
// to avoid an import cycle with satcore/constraint — see the pipeline
// package for the concrete wiring.
type SolverFactory func() Encoder

// Encoder asserts a FlagSet's constraints against a solver and returns
// the phases needed to analyze it. It is the seam between this package
// and constraint/satcore/analysis, implemented by the orchestrator's
// caller so flagguard itself stays free of a satcore import cycle.
// Encode accepts EncodeOptions so a caller of Analyzer.Run can supply
// exclusion groups and required-flag lists that the FlagSet alone
// cannot express (spec §4.D step 4).
type Encoder interface {
	Encode(fs FlagSet, opts ...EncodeOption) Theory
	DetectConflicts(flags []string, sitesByFlag map[string][]CheckSite) ([]Conflict, error)
	FindDeadRegions(sites []CheckSite) ([]DeadRegion, error)
	AnalyzePaths(fs FlagSet, sites CheckSiteSet) Graph
}

// NewAnalyzer builds an Analyzer from its three collaborators.
func NewAnalyzer(log *zap.SugaredLogger, configs ConfigLoader, scan SourceScanner, solver SolverFactory) *Analyzer {
	return &Analyzer{log: log, configDeps: configs, scanDeps: scan, solverDeps: solver}
}

// Run executes the full analysis pipeline over one config document and
// one source directory, producing a Report (spec §6 / the six
// end-to-end scenarios of spec §8). opts carries any exclusion groups
// or required-flag lists the caller wants asserted beyond what the
// FlagSet declares (spec §4.D step 4); most callers pass none.
func (a *Analyzer) Run(ctx context.Context, configContent []byte, sourceRoot string, opts ...EncodeOption) (Report, error) {
	var fs FlagSet
	err := runStep(a.log, "parse flag configuration", func() error {
		var err error
		fs, err = a.configDeps(configContent)
		return err
	})
	if err != nil {
		return Report{}, err
	}

	var sites CheckSiteSet
	var filesScanned int
	err = runStep(a.log, "scan source tree", func() error {
		var err error
		sites, filesScanned, err = a.scanDeps(ctx, sourceRoot)
		return err
	})
	if err != nil {
		return Report{}, err
	}

	encoder := a.solverDeps()

	var conflicts []Conflict
	var dead []DeadRegion
	var graph Graph
	err = runStep(a.log, "encode constraints and run SAT analyses", func() error {
		encoder.Encode(fs, opts...)

		var err error
		conflicts, err = encoder.DetectConflicts(fs.Names(), sites.ByFlag())
		if err != nil {
			return err
		}
		dead, err = encoder.FindDeadRegions(sites.Sites)
		if err != nil {
			return err
		}
		graph = encoder.AnalyzePaths(fs, sites)
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	report := Report{
		FlagsAnalyzed:    fs.Len(),
		FilesScanned:     filesScanned,
		Conflicts:        conflicts,
		DeadRegions:      dead,
		DependencyGraph:  graph,
		ExecutiveSummary: summarize(fs, conflicts, dead, graph),
		Warnings:         sites.Warnings,
		Timestamp:        time.Now(),
	}
	return report, nil
}

func summarize(fs FlagSet, conflicts []Conflict, dead []DeadRegion, graph Graph) string {
	return fmt.Sprintf(
		"analyzed %d flags: %d conflicts, %d dead regions, %d dependency edges, %d cycles",
		fs.Len(), len(conflicts), len(dead), len(graph.Edges), len(graph.Cycles),
	)
}

// runStep logs step entry/exit around f, adapting the teacher's
// runStep (internal/dorkly/reconcile.go) from stdout log-grouping
// markers to structured zap fields.
func runStep(log *zap.SugaredLogger, step string, f func() error) error {
	start := time.Now()
	log.Infow("step starting", "step", step)
	err := f()
	if err != nil {
		log.Errorw("step failed", "step", step, "elapsed", time.Since(start), "error", err)
		return err
	}
	log.Infow("step complete", "step", step, "elapsed", time.Since(start))
	return err
}
