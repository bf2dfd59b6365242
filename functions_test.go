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
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timburks/dred/config"
	"github.com/timburks/dred/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir, err := os.MkdirTemp("/tmp", "dred-main-")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	cfg := config.Default()
	cfg.User = "tester"
	cfg.LockDir = dir
	cfg.PipeDir = dir
	cfg.ConnectTimeout = 50 * time.Millisecond
	return cfg
}

func call(t *testing.T, cfg *config.Config, name string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := runFunction(cfg, logging.Nop(), name, args, &out)
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := call(t, testConfig(t), "version")
	require.NoError(t, err)
	assert.Equal(t, "dred "+version+"\n", out)
}

func TestCommandsPrefix(t *testing.T) {
	cfg := testConfig(t)
	out, err := call(t, cfg, "commands", "--prefix", "sav")
	require.NoError(t, err)
	assert.Equal(t, "save\nsave-all\nsave-as\n", out)

	out, err = call(t, cfg, "commands", "--prefix=xyz")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = call(t, cfg, "commands")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "!\n"))
}

func TestEval(t *testing.T) {
	cfg := testConfig(t)
	script := filepath.Join(t.TempDir(), "script.lisp")
	require.NoError(t, os.WriteFile(script, []byte(`(exec-command "new")
(exec-command "documents")
`), 0o644))

	out, err := call(t, cfg, "eval", script)
	require.NoError(t, err)
	assert.Equal(t, "*0:untitled-1\n", out)

	_, err = call(t, cfg, "eval")
	assert.Error(t, err)
}

func TestUnknownFunction(t *testing.T) {
	_, err := call(t, testConfig(t), "frobnicate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commands, eval, send, version")

	_, err = call(t, testConfig(t), "commands", "--bogus")
	assert.Error(t, err)
}

func TestSendWithoutEditor(t *testing.T) {
	_, err := call(t, testConfig(t), "send", "--activate", "a.txt")
	assert.Error(t, err)
}

func TestParseArgsRejectsBareFunctionFlag(t *testing.T) {
	t.Setenv("DRED_LOG_FILE", filepath.Join(t.TempDir(), "dred.log"))
	assert.Equal(t, 2, run([]string{"-f"}))
}
