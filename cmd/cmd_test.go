package cmd

import (
	"testing"

	"github.com/huangsam/bundlescope/schema"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"analyze", "modules", "packages", "duplicates", "suggest", "cache", "history", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	sub := map[string]bool{}
	for _, c := range historyCmd.Commands() {
		sub[c.Name()] = true
	}
	assert.Equal(t, map[string]bool{"clear": true, "status": true, "export": true, "migrate": true}, sub)
}

func TestCacheSetup(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(viper.Reset)

	viper.Set("cache-backend", "redis")
	viper.Set("cache-db-connect", "localhost:6379")
	require.Error(t, cacheSetup())

	viper.Set("cache-backend", "bogus")
	require.Error(t, cacheSetup())

	viper.Set("cache-backend", "none")
	viper.Set("cache-db-connect", "")
	require.NoError(t, cacheSetup())
	assert.Equal(t, schema.NoneBackend, cfg.CacheBackend)
}

func TestHistorySetup(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(viper.Reset)

	require.NoError(t, historySetup())
	assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)

	viper.Set("history-backend", "redis")
	require.Error(t, historySetup())

	viper.Set("history-backend", "postgresql")
	viper.Set("history-db-connect", "host=localhost")
	require.Error(t, historySetup())

	viper.Set("history-backend", "sqlite")
	viper.Set("history-db-connect", "runs.db")
	viper.Set("output-file", "out")
	require.NoError(t, historySetup())
	assert.Equal(t, "runs.db", historySQLitePath())
	assert.Equal(t, "out", cfg.OutputFile)
}
