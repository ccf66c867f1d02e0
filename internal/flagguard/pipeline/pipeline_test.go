package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagguardhq/flagguard/internal/flagguard"
	"github.com/flagguardhq/flagguard/internal/flagguard/obslog"
	"github.com/flagguardhq/flagguard/internal/flagguard/scanner"
)

func TestEndToEnd_ConflictAndDeadCode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "checkout.py"), []byte(
		"def handle(request):\n"+
			"    if is_enabled(\"checkout-v2\"):\n"+
			"        return new_checkout()\n"+
			"    if is_enabled(\"legacy-checkout\"):\n"+
			"        return old_checkout()\n",
	), 0o644))

	config := []byte(`{
		"flags": [
			{"name": "checkout-v2", "enabled": true},
			{"name": "legacy-checkout", "enabled": false}
		]
	}`)

	log := obslog.NewNop()
	analyzer := flagguard.NewAnalyzer(
		log,
		ConfigLoader(),
		SourceScanner(log, scanner.Options{}),
		SolverFactory(log),
	)

	report, err := analyzer.Run(context.Background(), config, dir)
	require.NoError(t, err)

	assert.Equal(t, 2, report.FlagsAnalyzed)
	assert.Equal(t, 1, report.FilesScanned)
	assert.Len(t, report.Conflicts, 2, "legacy-checkout is always off: {checkout-v2, legacy-checkout} = {true, true} and {false, true} are impossible")
	require.Len(t, report.DeadRegions, 1, "legacy-checkout is disabled, so its positive check site is dead")
	assert.Equal(t, "legacy-checkout", report.DeadRegions[0].Flag)
}

func TestConfigLoader_DetectsDialect(t *testing.T) {
	fs, err := ConfigLoader()([]byte(`{"flags": [{"name": "a"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, fs.Len())
}
