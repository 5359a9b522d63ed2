package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/goodsledger/internal/config"
	"github.com/erazemk/goodsledger/internal/db"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags("serve", []string{"-d", "ledger.sqlite3", "-addr", ":9090", "-c", "/etc/goodsledger"})
	require.NoError(t, err)
	assert.Equal(t, "ledger.sqlite3", opts.dbPath)
	assert.Equal(t, ":9090", opts.addr)
	assert.Equal(t, "/etc/goodsledger", opts.configDir)

	_, err = parseFlags("serve", []string{"extra"})
	assert.ErrorContains(t, err, "unexpected argument")
}

func TestApplyFlagsOverridesConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Path = "from-config.sqlite3"
	cfg.HTTP.Addr = ":8080"
	cfg.Log.Output = "stdout"

	applyFlags(cfg, options{dbPath: "from-flag.sqlite3", logPath: "ledger.log"})
	assert.Equal(t, "from-flag.sqlite3", cfg.Database.Path)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "ledger.log", cfg.Log.Output)
}

func TestCmdInit(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Path = filepath.Join(t.TempDir(), "ledger.sqlite3")

	require.NoError(t, cmdInit(cfg))
	assert.ErrorContains(t, cmdInit(cfg), "already exists")

	database, err := db.Open(cfg.Database.Path)
	require.NoError(t, err)
	defer database.Close()

	var tables int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'transfer_lines'`).Scan(&tables))
	assert.Equal(t, 1, tables)
}
