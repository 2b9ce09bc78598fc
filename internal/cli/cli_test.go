package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-service/internal/config"
)

func testViper(t *testing.T, mr *miniredis.Miniredis) *viper.Viper {
	t.Helper()
	v := config.NewViper()
	v.Set("database_type", "sqlite")
	v.Set("database_path", filepath.Join(t.TempDir(), "menu.db"))
	v.Set("log_level", "error")
	if mr != nil {
		v.Set("redis_address", mr.Addr())
		v.Set("redis_db", 0)
	}
	return v
}

func run(t *testing.T, v *viper.Viper, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(v)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateCommand(t *testing.T) {
	v := testViper(t, nil)

	out, err := run(t, v, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "schema version 1\n", out)

	out, err = run(t, v, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "schema version 1\n", out)
}

func TestCachePurgeCommand(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("entity:dish:1", "x"))
	require.NoError(t, mr.Set("entity:dish:2", "x"))
	require.NoError(t, mr.Set("list:dish:s1", "x"))

	out, err := run(t, testViper(t, mr), "cache", "purge", "entity:dish:*")
	require.NoError(t, err)
	assert.Equal(t, "deleted 2 keys\n", out)
	assert.Equal(t, []string{"list:dish:s1"}, mr.Keys())

	_, err = run(t, testViper(t, mr), "cache", "purge")
	assert.Error(t, err)
}

func TestCacheFlushCommand(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("entity:menu:1", "x"))

	out, err := run(t, testViper(t, mr), "cache", "flush")
	require.NoError(t, err)
	assert.Equal(t, "cache flushed\n", out)
	assert.Empty(t, mr.Keys())
}

func TestInvalidConfigIsRejected(t *testing.T) {
	v := testViper(t, nil)
	v.Set("cache_backend", "memcached")

	_, err := run(t, v, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_BACKEND")
}

func TestServeFlagsBindToConfig(t *testing.T) {
	v := testViper(t, nil)
	cmd := NewRootCommand(v)
	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	require.NoError(t, serve.Flags().Set("port", "9090"))
	assert.Equal(t, 9090, config.LoadFrom(v).Port)
}
