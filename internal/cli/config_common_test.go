package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/loadbench/internal/config"
	"github.com/vvka-141/loadbench/pkg/loadbench"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("table", loadbench.DefaultTable, "")
	cmd.Flags().Int("batch-size", loadbench.DefaultBatchSize, "")
	cmd.Flags().Duration("timeout", loadbench.DefaultTimeout, "")
	return cmd
}

func TestStringSetting(t *testing.T) {
	t.Run("yaml beats default", func(t *testing.T) {
		cmd := newSettingsCmd()
		assert.Equal(t, "from_yaml", stringSetting(cmd, "table", loadbench.DefaultTable, "from_yaml"))
	})

	t.Run("flag beats yaml", func(t *testing.T) {
		cmd := newSettingsCmd()
		require.NoError(t, cmd.Flags().Set("table", "from_flag"))
		assert.Equal(t, "from_flag", stringSetting(cmd, "table", "from_flag", "from_yaml"))
	})

	t.Run("default when yaml empty", func(t *testing.T) {
		cmd := newSettingsCmd()
		assert.Equal(t, loadbench.DefaultTable, stringSetting(cmd, "table", loadbench.DefaultTable, ""))
	})
}

func TestIntSetting(t *testing.T) {
	cmd := newSettingsCmd()
	assert.Equal(t, 5000, intSetting(cmd, "batch-size", loadbench.DefaultBatchSize, 5000))
	assert.Equal(t, loadbench.DefaultBatchSize, intSetting(cmd, "batch-size", loadbench.DefaultBatchSize, 0))

	require.NoError(t, cmd.Flags().Set("batch-size", "250"))
	assert.Equal(t, 250, intSetting(cmd, "batch-size", 250, 5000))
}

func TestResolveEffectiveTimeout(t *testing.T) {
	t.Run("nil config uses flag", func(t *testing.T) {
		d, err := resolveEffectiveTimeout(newSettingsCmd(), nil, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, time.Minute, d)
	})

	t.Run("yaml used when flag unchanged", func(t *testing.T) {
		pc := &config.ProjectConfig{Load: config.LoadConfig{Timeout: "45m"}}
		d, err := resolveEffectiveTimeout(newSettingsCmd(), pc, loadbench.DefaultTimeout)
		require.NoError(t, err)
		assert.Equal(t, 45*time.Minute, d)
	})

	t.Run("flag wins when changed", func(t *testing.T) {
		cmd := newSettingsCmd()
		require.NoError(t, cmd.Flags().Set("timeout", "10s"))
		pc := &config.ProjectConfig{Load: config.LoadConfig{Timeout: "45m"}}
		d, err := resolveEffectiveTimeout(cmd, pc, 10*time.Second)
		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, d)
	})

	t.Run("invalid yaml duration", func(t *testing.T) {
		pc := &config.ProjectConfig{Load: config.LoadConfig{Timeout: "soon"}}
		_, err := resolveEffectiveTimeout(newSettingsCmd(), pc, loadbench.DefaultTimeout)
		assert.ErrorIs(t, err, loadbench.ErrInvalidConfig)
	})
}

func TestLoadProjectConfig_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")
	content := `connection:
  host: db.internal
scenario:
  mode: Fast
load:
  batch_size: 2500
report:
  max_points: 600
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := loadProjectConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "db.internal", cfg.Connection.Host)
	assert.Equal(t, "Fast", cfg.Scenario.Mode)
	assert.Equal(t, 2500, cfg.Load.BatchSize)
	assert.Equal(t, 600, cfg.Report.MaxPoints)
}

func TestLoadProjectConfig_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("load: [unclosed"), 0644))

	_, err := loadProjectConfig(path)
	assert.ErrorIs(t, err, loadbench.ErrInvalidConfig)
}

func TestLoadProjectConfig_NoFileInWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := loadProjectConfig("")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestBuildLoadConfig_YAMLOverridesDefaults(t *testing.T) {
	resetLoadFlags()
	pc := &config.ProjectConfig{
		Scenario: config.ScenarioConfig{DB: "Postgres 17", Variant: "Tuned"},
		Load:     config.LoadConfig{Table: "bench.products", BatchSize: 2000, ResultsDir: "out"},
	}

	cfg, err := buildLoadConfig(newLoadTestCmd(), "products.csv", pc, false)
	require.NoError(t, err)

	assert.Equal(t, "products.csv", cfg.CSVPath)
	assert.Equal(t, "bench.products", cfg.Table)
	assert.Equal(t, 2000, cfg.BatchSize)
	assert.Equal(t, "out", cfg.ResultsDir)
	assert.Equal(t, loadbench.Scenario{DB: "Postgres 17", Mode: "Boring", Variant: "Tuned", Language: "Go"}, cfg.Scenario)
	assert.Equal(t, loadbench.DefaultTimeout, cfg.Timeout)
}

func TestBuildLoadConfig_FlagsBeatYAML(t *testing.T) {
	resetLoadFlags()
	cmd := newLoadTestCmd()
	require.NoError(t, cmd.Flags().Set("batch-size", "10"))
	loadFlags.batchSize = 10

	pc := &config.ProjectConfig{Load: config.LoadConfig{BatchSize: 2000}}
	cfg, err := buildLoadConfig(cmd, "products.csv", pc, true)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, loadbench.DefaultTable, cfg.Table)
	assert.True(t, cfg.Verbose)
}

func TestBuildReportConfig(t *testing.T) {
	resetReportFlags()
	pc := &config.ProjectConfig{Report: config.ReportConfig{OutputDir: "charts", MaxPoints: 300}}

	cfg := buildReportConfig(&cobra.Command{Use: "report"}, "results", pc, false)
	assert.Equal(t, "results", cfg.ResultsDir)
	assert.Equal(t, "charts", cfg.OutputDir)
	assert.Equal(t, 300, cfg.MaxPoints)
	assert.NoError(t, cfg.Validate())
}

// newLoadTestCmd declares the load flags on a fresh command so Changed state
// does not leak between tests through the shared loadCmd.
func newLoadTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "load"}
	for _, name := range []string{"table", "results-dir", "db-label", "mode", "variant", "language"} {
		cmd.Flags().String(name, "", "")
	}
	cmd.Flags().Int("batch-size", 0, "")
	cmd.Flags().Duration("timeout", 0, "")
	return cmd
}
