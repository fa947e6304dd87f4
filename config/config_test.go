/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/estate/database"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, database.TypeSQLite, cfg.Database.ConnectionConfig.Type)
	assert.True(t, cfg.Database.DataMigrateConfig.EnableMigrateOnStartup)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileWithEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")

	cfg, err := Load("testdata/estate.yaml", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	conn := cfg.Database.ConnectionConfig
	assert.Equal(t, database.TypePostgres, conn.Type)
	assert.Equal(t, "override.internal", conn.Host)
	assert.Equal(t, 5432, conn.Port)
	assert.Equal(t, 7, conn.MaxOpenConns)
	assert.Equal(t, 90*time.Second, conn.ConnMaxLifetime)
	assert.Equal(t, 500*time.Millisecond, conn.SlowQueryTime)
	assert.True(t, conn.EnableQueryLog)
	// unset keys keep their defaults
	assert.Equal(t, 10, conn.MaxIdleConns)
	assert.Equal(t, "dev", cfg.Database.DataInitConfig.Environment)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvFile(t *testing.T) {
	const key = "DB_PASSWORD"
	if _, ok := os.LookupEnv(key); ok {
		t.Skipf("%s already set", key)
	}
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(key+"=from-dotenv\n"), 0o600))

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Database.ConnectionConfig.Password)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [unclosed"), 0o600))
	_, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "failed to parse config file")
}
