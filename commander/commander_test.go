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
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timburks/dred/commands"
	"github.com/timburks/dred/editor"
	"github.com/timburks/dred/menu"
	"github.com/timburks/dred/types"
)

func newTestCommander(t *testing.T) (*Commander, *editor.Editor) {
	t.Helper()
	e := editor.NewEditor(nil)
	c, err := NewCommander(e, nil)
	require.NoError(t, err)
	return c, e
}

func ctrl(ch rune) types.Accelerator {
	return types.NewAccelerator(types.Key(ch), types.ModCtrl)
}

func key(ch rune) types.Accelerator {
	return types.NewAccelerator(types.Key(ch), 0)
}

func typeText(t *testing.T, c *Commander, text string) {
	t.Helper()
	for _, ch := range text {
		require.NoError(t, c.ProcessKey(key(ch)))
	}
}

func TestSystemCommandIsFirst(t *testing.T) {
	c, _ := newTestCommander(t)
	assert.Equal(t, commands.SystemCommandName, c.Registry().Command(0).Name)
}

func TestExecuteCommand(t *testing.T) {
	c, e := newTestCommander(t)
	require.NoError(t, c.ExecuteCommand("new"))
	require.NoError(t, c.ExecuteCommand("  new"))
	assert.Equal(t, []string{"untitled-1", "untitled-2"}, e.Documents())

	require.NoError(t, c.ExecuteCommand("prev"))
	assert.Equal(t, 0, e.ActiveIndex())

	require.NoError(t, c.ExecuteCommand("documents"))
	assert.Equal(t, "*0:untitled-1 1:untitled-2", e.GetMessage())

	err := c.ExecuteCommand("frobnicate now")
	assert.ErrorIs(t, err, commands.ErrCommandNotFound)
	assert.Contains(t, e.GetMessage(), "frobnicate")

	assert.Error(t, c.ExecuteCommand("open"))
	assert.Error(t, c.ExecuteCommand("save-as   "))

	require.NoError(t, c.ExecuteCommand("quit"))
	assert.False(t, c.IsRunning())
}

func TestOpenAndSaveAs(t *testing.T) {
	c, e := newTestCommander(t)
	dir := t.TempDir()
	require.NoError(t, c.ExecuteCommand("open "+filepath.Join(dir, "a.txt")+"  "))
	assert.Equal(t, []string{"a.txt"}, e.Documents())

	target := filepath.Join(dir, "b.txt")
	require.NoError(t, c.ExecuteCommand("save-as "+target))
	_, err := os.Stat(target)
	assert.NoError(t, err)
}

func TestSystemCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	c, e := newTestCommander(t)
	require.NoError(t, c.ExecuteCommand("!echo hello   world"))
	assert.Equal(t, "hello world", e.GetMessage())

	require.NoError(t, c.ExecuteCommand("!  echo spaced"))
	assert.Equal(t, "spaced", e.GetMessage())

	assert.Error(t, c.ExecuteCommand("!exit 3"))
	assert.Error(t, c.ExecuteCommand("!"))
}

func TestDefaultShortcuts(t *testing.T) {
	c, e := newTestCommander(t)

	assert.True(t, c.OnAccelerator(ctrl('n')))
	assert.Equal(t, []string{"untitled-1"}, e.Documents())

	assert.False(t, c.OnAccelerator(key('x')))

	assert.True(t, c.OnAccelerator(ctrl('q')))
	assert.Equal(t, types.ModeQuit, c.Mode())
}

func TestChord(t *testing.T) {
	c, e := newTestCommander(t)
	c.ExecuteCommand("new")
	c.ExecuteCommand("new")

	assert.True(t, c.OnAccelerator(ctrl('k')))
	assert.Len(t, e.Documents(), 2)
	assert.Equal(t, "Ctrl+K ...", e.GetMessage())

	assert.True(t, c.OnAccelerator(ctrl('w')))
	assert.Empty(t, e.Documents())

	// A chord that goes nowhere is consumed and reported.
	c.ExecuteCommand("new")
	assert.True(t, c.OnAccelerator(ctrl('k')))
	assert.True(t, c.OnAccelerator(key('z')))
	assert.Equal(t, "Ctrl+K,z is not bound", e.GetMessage())
	assert.Len(t, e.Documents(), 1)

	// Ctrl+W on its own closes just the active document.
	assert.True(t, c.OnAccelerator(ctrl('w')))
	assert.Empty(t, e.Documents())
}

func TestBindAndUnbind(t *testing.T) {
	c, e := newTestCommander(t)

	require.NoError(t, c.ExecuteCommand("bind F5 new"))
	assert.True(t, c.Accelerators().IsRegistered(types.NewAccelerator(types.KeyF5, 0)))
	assert.True(t, c.OnAccelerator(types.NewAccelerator(types.KeyF5, 0)))
	assert.Len(t, e.Documents(), 1)

	// A direct binding overrides the stock shortcut.
	require.NoError(t, c.ExecuteCommand("bind Ctrl+Q new"))
	assert.True(t, c.OnAccelerator(ctrl('q')))
	assert.True(t, c.IsRunning())
	assert.Len(t, e.Documents(), 2)

	require.NoError(t, c.ExecuteCommand("unbind Ctrl+Q"))
	require.NoError(t, c.ExecuteCommand("unbind Ctrl+Q"))
	assert.False(t, c.OnAccelerator(ctrl('q')))
	assert.True(t, c.IsRunning())

	// Stock slots stay addressable after unbinding.
	index, ok := c.Shortcuts().Find(menu.StockExit)
	require.True(t, ok)
	assert.Equal(t, int(menu.StockExit), index)
	command, ok := c.Shortcuts().GetCommandString(menu.StockExit)
	assert.True(t, ok)
	assert.Empty(t, command)

	assert.Error(t, c.ExecuteCommand("unbind Ctrl+Q"))
	assert.Error(t, c.ExecuteCommand("bind Ctrl+J"))
}

func TestBindChord(t *testing.T) {
	c, e := newTestCommander(t)
	count := c.Shortcuts().Count()

	require.NoError(t, c.Bind("Ctrl+X,Ctrl+N", "new"))
	require.NoError(t, c.Bind("Ctrl+X,Ctrl+N", "documents"))
	assert.Equal(t, count+1, c.Shortcuts().Count())

	c.ExecuteCommand("new")
	assert.True(t, c.OnAccelerator(ctrl('x')))
	assert.True(t, c.OnAccelerator(ctrl('n')))
	assert.Equal(t, "*0:untitled-1", e.GetMessage())

	require.NoError(t, c.Unbind("Ctrl+X,Ctrl+N"))
	assert.Equal(t, count, c.Shortcuts().Count())
	assert.False(t, c.Accelerators().IsRegistered(ctrl('x')))
}

func TestRebindStockChord(t *testing.T) {
	c, e := newTestCommander(t)
	count := c.Shortcuts().Count()
	c.ExecuteCommand("new")
	c.ExecuteCommand("new")

	require.NoError(t, c.ExecuteCommand("bind Ctrl+K,Ctrl+W documents"))
	assert.Equal(t, count, c.Shortcuts().Count())
	command, ok := c.Shortcuts().GetCommandString(menu.StockCloseAll)
	require.True(t, ok)
	assert.Equal(t, "documents", command)
	name, _ := c.Shortcuts().GetName(menu.StockCloseAll)
	assert.Equal(t, "close-all", name)

	assert.True(t, c.OnAccelerator(ctrl('k')))
	assert.True(t, c.OnAccelerator(ctrl('w')))
	assert.Len(t, e.Documents(), 2)
	assert.Equal(t, "0:untitled-1 *1:untitled-2", e.GetMessage())
}

func TestSaveAsChord(t *testing.T) {
	c, _ := newTestCommander(t)
	assert.True(t, c.OnAccelerator(ctrl('k')))
	assert.True(t, c.OnAccelerator(ctrl('a')))
	assert.Equal(t, types.ModeCommand, c.Mode())
	assert.Equal(t, "save-as ", c.CommandText())
}

func TestMenu(t *testing.T) {
	c, e := newTestCommander(t)
	require.NoError(t, c.OnMenuItem(menu.StockNew))
	assert.Len(t, e.Documents(), 1)

	require.NoError(t, c.OnMenuItem(menu.StockOpen))
	assert.Equal(t, types.ModeCommand, c.Mode())
	assert.Equal(t, "open ", c.CommandText())

	assert.Error(t, c.OnMenuItem(menu.StockCount+10))

	items := c.MenuItems()
	require.Len(t, items, int(menu.StockCount))
	assert.Equal(t, MenuItem{ID: menu.StockSave, Command: "save", Shortcut: "Ctrl+S"}, items[menu.StockSave])
	assert.Equal(t, "Ctrl+K,Ctrl+W", items[menu.StockCloseAll].Shortcut)

	c.Menu().Unbind(menu.StockNew)
	assert.Error(t, c.OnMenuItem(menu.StockNew))
	assert.Len(t, c.MenuItems(), int(menu.StockCount)-1)
}

func TestCommandBar(t *testing.T) {
	c, e := newTestCommander(t)

	require.NoError(t, c.ProcessKey(ctrl('p')))
	assert.Equal(t, types.ModeCommand, c.Mode())

	typeText(t, c, "nex")
	require.NoError(t, c.ProcessKey(types.NewAccelerator(types.KeyBackspace, 0)))
	typeText(t, c, "w")
	assert.Equal(t, ":new", c.GetMessageBarText(80))
	assert.Equal(t, ":ne", c.GetMessageBarText(3))

	require.NoError(t, c.ProcessKey(types.NewAccelerator(types.KeyEnter, 0)))
	assert.Len(t, e.Documents(), 1)
	assert.Equal(t, types.ModeEdit, c.Mode())
	assert.Empty(t, c.CommandText())
}

func TestCommandBarKeepsOpenForListing(t *testing.T) {
	c, e := newTestCommander(t)
	c.ExecuteCommand("cmdbar documents")
	require.NoError(t, c.ProcessKey(types.NewAccelerator(types.KeyEnter, 0)))
	assert.Equal(t, types.ModeCommand, c.Mode())
	assert.Empty(t, c.CommandText())
	assert.Empty(t, e.GetMessage())

	typeText(t, c, "bogus")
	assert.Error(t, c.ProcessKey(types.NewAccelerator(types.KeyEnter, 0)))
	assert.Equal(t, "bogus", c.CommandText())
	assert.Equal(t, types.ModeCommand, c.Mode())

	require.NoError(t, c.ProcessKey(types.NewAccelerator(types.KeyEscape, 0)))
	assert.Equal(t, types.ModeEdit, c.Mode())
	assert.Empty(t, c.CommandText())
}

func TestCommandBarShortcutsStillWork(t *testing.T) {
	c, _ := newTestCommander(t)
	c.ExecuteCommand("cmdbar")
	require.NoError(t, c.ProcessKey(ctrl('q')))
	assert.False(t, c.IsRunning())
}

func TestComplete(t *testing.T) {
	c, e := newTestCommander(t)
	c.ExecuteCommand("cmdbar sa")
	tab := types.NewAccelerator(types.KeyTab, 0)

	require.NoError(t, c.ProcessKey(tab))
	assert.Equal(t, "save", c.CommandText())
	assert.Equal(t, "save save-all save-as", e.GetMessage())

	typeText(t, c, "-al")
	require.NoError(t, c.ProcessKey(tab))
	assert.Equal(t, "save-all ", c.CommandText())

	// Completion only applies to the verb.
	require.NoError(t, c.ProcessKey(tab))
	assert.Equal(t, "save-all ", c.CommandText())

	c.ExecuteCommand("cmdbar xyz")
	require.NoError(t, c.ProcessKey(tab))
	assert.Equal(t, "xyz", c.CommandText())
}

func TestCommonPrefix(t *testing.T) {
	assert.Equal(t, "save", commonPrefix([]string{"save", "save-all", "save-as"}))
	assert.Equal(t, "", commonPrefix([]string{"open", "close"}))
	assert.Equal(t, "next", commonPrefix([]string{"next"}))
}
