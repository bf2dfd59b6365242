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
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable, as in DRED_LOG_LEVEL.
const Prefix = "DRED"

// Config holds the settings read from the environment.
type Config struct {
	User           string        `envconfig:"USER"`
	LockDir        string        `envconfig:"LOCK_DIR" default:"/tmp"`
	PipeDir        string        `envconfig:"PIPE_DIR" default:"/tmp"`
	ConnectTimeout time.Duration `envconfig:"CONNECT_TIMEOUT" default:"2s"`
	LogFile        string        `envconfig:"LOG_FILE" default:"~/.dredlog"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	LogDev         bool          `envconfig:"LOG_DEV" default:"false"`
	InitScript     string        `envconfig:"INIT_SCRIPT" default:"~/.dredrc"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.resolve()
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

func Default() *Config {
	cfg := &Config{
		LockDir:        "/tmp",
		PipeDir:        "/tmp",
		ConnectTimeout: 2 * time.Second,
		LogFile:        "~/.dredlog",
		LogLevel:       "info",
		InitScript:     "~/.dredrc",
	}
	cfg.resolve()
	return cfg
}

func (c *Config) resolve() {
	if c.User == "" {
		c.User = currentUser()
	}
	c.LogFile = expandHome(c.LogFile)
	c.InitScript = expandHome(c.InitScript)
}

// PipeName is the logical name of the pipe the leader serves.
func (c *Config) PipeName() string {
	return c.User + ".dred.pipe"
}

// LockPath is the file whose lock marks the leader.
func (c *Config) LockPath() string {
	return filepath.Join(c.LockDir, c.User+".dred.lock")
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		// Windows reports DOMAIN\name.
		name := u.Username
		if i := strings.LastIndexByte(name, '\\'); i >= 0 {
			name = name[i+1:]
		}
		return name
	}
	for _, key := range []string{"USER", "USERNAME", "LOGNAME"} {
		if name := os.Getenv(key); name != "" {
			return name
		}
	}
	return "user"
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
