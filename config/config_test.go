package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "beanledger.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "0.0.0.0:8081", cfg.Addr())
	assert.Equal(t, filepath.Join(".", "main.bean"), cfg.MainFilePath())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
data:
  path: /var/ledger
`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/var/ledger", cfg.Data.Path)
	assert.Equal(t, "main.bean", cfg.Data.MainFile)
	assert.Equal(t, filepath.Join("/var/ledger", "main.bean"), cfg.MainFilePath())
	assert.Equal(t, 50, cfg.Display.RecordsPerPage)
}

func TestLoadFullFile(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 8090
data:
  path: ./books
  main_file: ledger.bean
  watch_enable: false
display:
  default_time_range: year
  records_per_page: 25
`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8090", cfg.Addr())
	assert.False(t, cfg.Data.WatchEnable)
	assert.Equal(t, "year", cfg.Display.DefaultTimeRange)
	assert.Equal(t, 25, cfg.Display.RecordsPerPage)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not: a mapping")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadNonPositiveRecordsPerPage(t *testing.T) {
	path := writeConfig(t, `
display:
  records_per_page: -5
`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 50, cfg.Display.RecordsPerPage)
}
