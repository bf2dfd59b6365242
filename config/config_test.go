//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DRED_USER", "alice")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.User)
	assert.Equal(t, "/tmp", cfg.LockDir)
	assert.Equal(t, 2*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogDev)
	assert.Equal(t, "alice.dred.pipe", cfg.PipeName())
	assert.Equal(t, filepath.Join("/tmp", "alice.dred.lock"), cfg.LockPath())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DRED_USER", "bob")
	t.Setenv("DRED_LOCK_DIR", "/var/run")
	t.Setenv("DRED_CONNECT_TIMEOUT", "250ms")
	t.Setenv("DRED_LOG_LEVEL", "debug")
	t.Setenv("DRED_LOG_DEV", "true")
	t.Setenv("DRED_LOG_FILE", "/tmp/dred.log")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.ConnectTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogDev)
	assert.Equal(t, "/tmp/dred.log", cfg.LogFile)
	assert.Equal(t, filepath.Join("/var/run", "bob.dred.lock"), cfg.LockPath())
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("DRED_CONNECT_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, 2*time.Second, cfg.ConnectTimeout)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".dredlog"), expandHome("~/.dredlog"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}

func TestDefaultUser(t *testing.T) {
	assert.NotEmpty(t, Default().User)
}
