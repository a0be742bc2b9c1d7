package acep

import (
	"io/ioutil"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.False(t, cfg.Preview)
	assert.False(t, cfg.Random)
	assert.Empty(t, cfg.DB)
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, ioutil.WriteFile(file, nil, 0644))

	tables := map[string]struct {
		cfg     Config
		wantErr bool
	}{
		"valid":          {Config{Options: Options{Output: dir, Workers: 1}}, false},
		"no output":      {Config{Options: Options{Workers: 1}}, true},
		"missing output": {Config{Options: Options{Output: filepath.Join(dir, "nope"), Workers: 1}}, true},
		"output is file": {Config{Options: Options{Output: file, Workers: 1}}, true},
		"no workers":     {Config{Options: Options{Output: dir}}, true},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			err := table.cfg.Validate()
			if table.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, ioutil.WriteFile(file, []byte(`
output = "/media/frame"
png = true
random = false
seed = 7
workers = 3
db = "/var/lib/acep/catalog.db"
`), 0644))

	fc, err := LoadFileConfig(file)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Random = true
	ApplyFileConfig(&cfg, fc)

	assert.Equal(t, "/media/frame", cfg.Output)
	assert.True(t, cfg.Preview)
	assert.False(t, cfg.Random)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "/var/lib/acep/catalog.db", cfg.DB)
}

func TestApplyFileConfigPartial(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = "/media/frame"
	cfg.Random = true
	ApplyFileConfig(&cfg, FileConfig{Workers: 2})

	assert.Equal(t, "/media/frame", cfg.Output)
	assert.True(t, cfg.Random)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoadFileConfigErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFileConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	file := filepath.Join(dir, "bad.toml")
	require.NoError(t, ioutil.WriteFile(file, []byte("workers = \"many\"\n"), 0644))
	_, err = LoadFileConfig(file)
	assert.Error(t, err)
}
