package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "America/New_York", cfg.Market.Timezone)
	assert.Equal(t, 16, cfg.Market.CutoffHour)
	assert.Equal(t, "^GSPTSE", cfg.Market.Benchmark)
	assert.Equal(t, 5, cfg.Window.Length)
	assert.Equal(t, ".TO", cfg.Market.PriceSuffix)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
market:
  benchmark: "^GSPC"
  symbols: [BMO, TD]
window:
  length: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("BENCHMARK_SYMBOL", "^DJI")
	t.Setenv("SYMBOLS", "RY, BNS")

	cfg, err := Load(path)
	require.NoError(t, err)

	// Environment wins over the file.
	assert.Equal(t, "^DJI", cfg.Market.Benchmark)
	assert.Equal(t, []string{"RY", "BNS"}, cfg.Market.Symbols)
	assert.Equal(t, 3, cfg.Window.Length)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("market: ["), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Error(t, cfg.Validate(), "empty symbols must fail validation")

	cfg.Market.Symbols = []string{"BMO"}
	assert.NoError(t, cfg.Validate())

	cfg.Window.Length = 0
	assert.Error(t, cfg.Validate())
}
