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
package commander

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timburks/dred/types"
)

func TestLispExecCommand(t *testing.T) {
	c, e := newTestCommander(t)
	require.NoError(t, c.ExecuteCommand(`(exec-command "new")`))
	assert.Equal(t, []string{"untitled-1"}, e.Documents())
}

func TestLispBindKey(t *testing.T) {
	c, e := newTestCommander(t)
	require.NoError(t, c.ExecuteCommand(`(bind-key "F6" "new")`))
	assert.True(t, c.OnAccelerator(types.NewAccelerator(types.KeyF6, 0)))
	assert.Len(t, e.Documents(), 1)

	require.NoError(t, c.ExecuteCommand(`(unbind-key "F6")`))
	assert.False(t, c.OnAccelerator(types.NewAccelerator(types.KeyF6, 0)))
}

func TestLispCommandNames(t *testing.T) {
	c, e := newTestCommander(t)
	require.NoError(t, c.ExecuteCommand(`(command-names "save")`))
	assert.Equal(t, "save save-all save-as", e.GetMessage())

	result, err := c.ParseEval(`(command-names "xyz")`)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestLispErrors(t *testing.T) {
	c, _ := newTestCommander(t)
	assert.Error(t, c.ExecuteCommand(`(open-file 42)`))
	assert.Error(t, c.ExecuteCommand(`(exec-command "frobnicate")`))
}

func TestEvalFile(t *testing.T) {
	c, e := newTestCommander(t)
	dir := t.TempDir()
	script := filepath.Join(dir, "init.lisp")
	target := filepath.Join(dir, "notes.txt")
	source := `(open-file "` + target + `")
(bind-key "Ctrl+K,Ctrl+N" "new")
(show-message "ready")
`
	require.NoError(t, os.WriteFile(script, []byte(source), 0o644))

	result, err := c.EvalFile(script)
	require.NoError(t, err)
	assert.Equal(t, "ready", result)
	assert.Equal(t, "ready", e.GetMessage())
	assert.Equal(t, []string{"notes.txt"}, e.Documents())

	assert.True(t, c.OnAccelerator(ctrl('k')))
	assert.True(t, c.OnAccelerator(ctrl('n')))
	assert.Len(t, e.Documents(), 2)

	_, err = c.EvalFile(filepath.Join(dir, "missing.lisp"))
	assert.Error(t, err)
}
