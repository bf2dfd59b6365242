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
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/timburks/dred/commands"
	"github.com/timburks/dred/logging"
	"github.com/timburks/dred/menu"
	"github.com/timburks/dred/shortcut"
	"github.com/timburks/dred/strpool"
	"github.com/timburks/dred/types"
)

// The Commander turns typed command lines, key accelerators and menu picks
// into calls on the editor. It is owned by the main goroutine.
type Commander struct {
	editor       types.Editor
	logger       *zap.Logger
	pool         *strpool.Pool
	registry     *commands.Registry
	shortcuts    *shortcut.Table
	accelerators *shortcut.AcceleratorTable
	menu         *menu.Table
	mode         int                 // editor mode
	commandText  string              // command as it is being typed on the command bar
	chord        []types.Accelerator // accelerators of a shortcut in progress
	nextID       uint32              // next id for shortcuts bound at run time
	lispDepth    int
}

func NewCommander(e types.Editor, logger *zap.Logger) (*Commander, error) {
	c := &Commander{
		editor: e,
		logger: logging.OrNop(logger).Named("commander"),
		pool:   strpool.New(nil),
		mode:   types.ModeEdit,
		nextID: menu.StockCount,
	}
	registry, err := commands.New(c.builtins())
	if err != nil {
		return nil, err
	}
	c.registry = registry
	c.accelerators = shortcut.NewAcceleratorTable(c.pool)
	c.shortcuts = shortcut.NewTable(c.pool, int(menu.StockCount), c.accelerators)
	c.menu = menu.NewTable(c.pool)
	if err := c.bindDefaults(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Commander) Registry() *commands.Registry {
	return c.registry
}

func (c *Commander) Shortcuts() *shortcut.Table {
	return c.shortcuts
}

func (c *Commander) Accelerators() *shortcut.AcceleratorTable {
	return c.accelerators
}

func (c *Commander) Menu() *menu.Table {
	return c.menu
}

func (c *Commander) Mode() int {
	return c.mode
}

func (c *Commander) SetMode(m int) {
	c.mode = m
}

func (c *Commander) IsRunning() bool {
	return c.mode != types.ModeQuit
}

func (c *Commander) CommandText() string {
	return c.commandText
}

func (c *Commander) setMessage(format string, args ...any) {
	c.editor.SetMessage(fmt.Sprintf(format, args...))
}

// ExecuteCommand runs one command line. Lines starting with "(" are
// evaluated as lisp. Failures are also shown on the message bar.
func (c *Commander) ExecuteCommand(text string) error {
	line := strings.TrimLeftFunc(text, unicode.IsSpace)
	if strings.HasPrefix(line, "(") {
		result, err := c.ParseEval(line)
		if err != nil {
			c.setMessage("%v", err)
			return err
		}
		c.setMessage("%s", result)
		return nil
	}
	command, args, err := c.registry.FindCommand(line)
	if err != nil {
		c.setMessage("%v", err)
		return err
	}
	c.logger.Debug("execute", zap.String("command", command.Name), zap.String("args", args))
	if err := command.Proc(args); err != nil {
		c.setMessage("%s: %v", command.Name, err)
		return err
	}
	return nil
}

// OnAccelerator routes one key combination. Direct accelerator bindings win;
// otherwise the accelerator extends the chord being matched against the
// shortcut table. It reports whether the key was consumed.
func (c *Commander) OnAccelerator(a types.Accelerator) bool {
	if !c.accelerators.IsRegistered(a) {
		if len(c.chord) > 0 {
			c.setMessage("%s is not bound", chordString(append(c.chord, a)))
			c.chord = nil
			return true
		}
		return false
	}
	if len(c.chord) == 0 {
		if command, ok := c.accelerators.GetCommandString(a); ok {
			c.ExecuteCommand(command)
			return true
		}
	}
	chord := append(c.chord[:len(c.chord):len(c.chord)], a)
	index, match := c.shortcuts.Match(chord)
	switch match {
	case shortcut.MatchExact:
		c.chord = nil
		if command := c.pool.CStr(c.shortcuts.Binding(index).Command); command != "" {
			c.ExecuteCommand(command)
		}
		return true
	case shortcut.MatchPartial:
		c.chord = chord
		c.setMessage("%s ...", chordString(chord))
		return true
	default:
		pending := len(c.chord) > 0
		c.chord = nil
		if pending {
			c.setMessage("%s is not bound", chordString(chord))
		}
		return pending
	}
}

func chordString(chord []types.Accelerator) string {
	parts := make([]string, len(chord))
	for i, a := range chord {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}

var errMenuItemNotBound = errors.New("menu item is not bound")

// OnMenuItem runs the command bound to a menu item.
func (c *Commander) OnMenuItem(id uint32) error {
	command, ok := c.menu.GetCommandString(id)
	if !ok || command == "" {
		return fmt.Errorf("%w: %d", errMenuItemNotBound, id)
	}
	return c.ExecuteCommand(command)
}

// MenuItem describes one bound menu entry for display.
type MenuItem struct {
	ID       uint32
	Command  string
	Shortcut string
}

// MenuItems lists the bound menu entries with the shortcut text each one
// advertises.
func (c *Commander) MenuItems() []MenuItem {
	var items []MenuItem
	for i := 0; i < c.menu.Count(); i++ {
		b := c.menu.Binding(i)
		command := c.pool.CStr(b.Command)
		if command == "" {
			continue
		}
		item := MenuItem{ID: b.ID, Command: command}
		if index, ok := c.shortcuts.FindByName(c.pool.CStr(b.ShortcutName)); ok {
			item.Shortcut = c.shortcuts.Binding(index).Shortcut.String()
		}
		items = append(items, item)
	}
	return items
}

// ProcessKey handles one key event from the input layer.
func (c *Commander) ProcessKey(a types.Accelerator) error {
	switch c.mode {
	case types.ModeCommand:
		if a.Modifiers&(types.ModCtrl|types.ModAlt) != 0 && c.OnAccelerator(a) {
			return nil
		}
		return c.processKeyCommandMode(a)
	default:
		c.OnAccelerator(a)
		return nil
	}
}

// GetMessageBarText returns the text for the bottom line of the screen.
func (c *Commander) GetMessageBarText(length int) string {
	var line string
	if c.mode == types.ModeCommand {
		line = ":" + c.commandText
	} else {
		line = c.editor.GetMessage()
	}
	if len(line) > length {
		line = line[0:length]
	}
	return line
}

// Uninit releases the binding tables.
func (c *Commander) Uninit() {
	c.shortcuts.Uninit()
	c.accelerators.Uninit()
	c.menu.Uninit()
	c.pool.Reset()
}
