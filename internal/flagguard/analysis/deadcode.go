package analysis

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/flagguardhq/flagguard/internal/flagguard"
	"github.com/flagguardhq/flagguard/internal/flagguard/satcore"
)

// DeadCodeFinder flags check sites whose required polarity can never
// hold, grounded on the reference's DeadCodeFinder (dead_code.py).
type DeadCodeFinder struct {
	log    *zap.SugaredLogger
	solver satcore.Solver
}

// NewDeadCodeFinder builds a finder against an already-encoded solver.
func NewDeadCodeFinder(log *zap.SugaredLogger, solver satcore.Solver) *DeadCodeFinder {
	return &DeadCodeFinder{log: log, solver: solver}
}

// FindDeadRegions checks every check site's required polarity against
// the solver and reports the ones that are unreachable, one DeadRegion
// per unreachable site (spec §4.G: each site is processed
// independently); sites are not merged by location.
func (f *DeadCodeFinder) FindDeadRegions(sites []flagguard.CheckSite) ([]flagguard.DeadRegion, error) {
	var regions []flagguard.DeadRegion
	for _, site := range sites {
		region, dead, err := f.checkSite(site)
		if err != nil {
			return nil, err
		}
		if dead {
			regions = append(regions, region)
		}
	}
	f.log.Infow("dead code detection complete", "dead_regions", len(regions))
	return regions, nil
}

func (f *DeadCodeFinder) checkSite(site flagguard.CheckSite) (flagguard.DeadRegion, bool, error) {
	if site.Polarity == flagguard.PolarityValue {
		return flagguard.DeadRegion{}, false, nil
	}
	required := site.Polarity != flagguard.PolarityNegative

	ok, err := f.solver.CheckAssignment(map[string]bool{site.Flag: required})
	if err != nil {
		return flagguard.DeadRegion{}, false, err
	}
	if ok {
		return flagguard.DeadRegion{}, false, nil
	}

	endLine := site.EndLine
	if endLine < site.Line {
		endLine = site.Line
	}

	return flagguard.DeadRegion{
		Flag:      site.Flag,
		File:      site.File,
		StartLine: site.Line,
		EndLine:   endLine,
		Reason:    reasonFor(site.Flag, required),
		Severity:  flagguard.SeverityHigh,
		Sites:     []flagguard.CheckSite{site},
	}, true, nil
}

// CheckPath reports a DeadRegion if a whole path's combined flag
// requirements are jointly impossible, grounded on
// DeadCodeFinder.check_path.
func (f *DeadCodeFinder) CheckPath(conditions map[string]bool, file string, startLine, endLine int) (*flagguard.DeadRegion, error) {
	ok, err := f.solver.CheckAssignment(conditions)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, nil
	}
	parts := make([]string, 0, len(conditions))
	for flag, value := range conditions {
		parts = append(parts, fmt.Sprintf("%s=%v", flag, value))
	}
	if endLine < startLine {
		endLine = startLine
	}
	region := flagguard.DeadRegion{
		File:      file,
		StartLine: startLine,
		EndLine:   endLine,
		Reason:    fmt.Sprintf("path requires impossible state: %s", strings.Join(parts, ", ")),
		Severity:  flagguard.SeverityMedium,
	}
	return &region, nil
}

func reasonFor(flag string, required bool) string {
	if required {
		return fmt.Sprintf("code requires %q to be enabled, but it is always disabled", flag)
	}
	return fmt.Sprintf("code requires %q to be disabled, but it is always enabled", flag)
}
