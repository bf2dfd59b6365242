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
	"os/exec"
	"runtime"
	"strings"

	"github.com/timburks/dred/commands"
	"github.com/timburks/dred/menu"
	"github.com/timburks/dred/shortcut"
	"github.com/timburks/dred/types"
)

const release = commands.ReleaseKeyboardOnExec

var errMissingArgument = errors.New("missing argument")

// builtins is the command table. The system command must stay first.
func (c *Commander) builtins() []commands.Command {
	return []commands.Command{
		{Name: commands.SystemCommandName, Proc: c.system, Flags: commands.NoClearOnExec},
		{Name: "activate", Proc: c.noArgs(c.editor.Activate), Flags: release},
		{Name: "bind", Proc: c.bind, Flags: release},
		{Name: "close", Proc: c.errArgs(c.editor.Close), Flags: release},
		{Name: "close-all", Proc: c.noArgs(c.editor.CloseAll), Flags: release},
		{Name: "cmdbar", Proc: c.commandBar, Flags: commands.NoClearOnExec},
		{Name: "documents", Proc: c.documents},
		{Name: "new", Proc: c.noArgs(c.editor.New), Flags: release},
		{Name: "next", Proc: c.noArgs(c.editor.Next), Flags: release},
		{Name: "open", Proc: c.open, Flags: release},
		{Name: "prev", Proc: c.noArgs(c.editor.Previous), Flags: release},
		{Name: "quit", Proc: c.quit, Flags: release},
		{Name: "save", Proc: c.errArgs(c.editor.Save), Flags: release},
		{Name: "save-all", Proc: c.errArgs(c.editor.SaveAll), Flags: release},
		{Name: "save-as", Proc: c.saveAs, Flags: release},
		{Name: "unbind", Proc: c.unbind, Flags: release},
	}
}

func (c *Commander) noArgs(f func()) commands.Proc {
	return func(string) error {
		f()
		return nil
	}
}

func (c *Commander) errArgs(f func() error) commands.Proc {
	return func(string) error {
		return f()
	}
}

// system runs args through the platform shell and shows its output.
func (c *Commander) system(args string) error {
	if strings.TrimSpace(args) == "" {
		return fmt.Errorf("%w: shell command", errMissingArgument)
	}
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", args)
	} else {
		cmd = exec.Command("sh", "-c", args)
	}
	out, err := cmd.CombinedOutput()
	c.setMessage("%s", strings.Join(strings.Fields(string(out)), " "))
	return err
}

func (c *Commander) commandBar(args string) error {
	c.mode = types.ModeCommand
	c.commandText = args
	return nil
}

func (c *Commander) documents(string) error {
	var b strings.Builder
	active := c.editor.ActiveIndex()
	for i, name := range c.editor.Documents() {
		if i > 0 {
			b.WriteString(" ")
		}
		if i == active {
			b.WriteString("*")
		}
		fmt.Fprintf(&b, "%d:%s", i, name)
	}
	c.setMessage("%s", b.String())
	return nil
}

func (c *Commander) open(args string) error {
	args = strings.TrimSpace(args)
	if args == "" {
		return fmt.Errorf("%w: file name", errMissingArgument)
	}
	return c.editor.Open(args)
}

func (c *Commander) saveAs(args string) error {
	args = strings.TrimSpace(args)
	if args == "" {
		return fmt.Errorf("%w: file name", errMissingArgument)
	}
	return c.editor.SaveAs(args)
}

func (c *Commander) quit(string) error {
	c.mode = types.ModeQuit
	return nil
}

// bind takes a shortcut and a command line. A single accelerator is bound
// directly; a chord gets an entry in the shortcut table named after it.
func (c *Commander) bind(args string) error {
	keys, command, _ := strings.Cut(strings.TrimSpace(args), " ")
	command = strings.TrimSpace(command)
	if keys == "" || command == "" {
		return fmt.Errorf("%w: bind SHORTCUT COMMAND", errMissingArgument)
	}
	return c.Bind(keys, command)
}

func (c *Commander) unbind(args string) error {
	keys := strings.TrimSpace(args)
	if keys == "" {
		return fmt.Errorf("%w: unbind SHORTCUT", errMissingArgument)
	}
	return c.Unbind(keys)
}

// Bind binds the shortcut written as keys, like "Ctrl+K,Ctrl+W", to command.
func (c *Commander) Bind(keys, command string) error {
	s, err := types.ParseShortcut(keys)
	if err != nil {
		return err
	}
	if s.Len() == 1 {
		return c.accelerators.Bind(s.Accelerators()[0], command)
	}
	// An entry already bound to this exact chord, stock or custom, is
	// rebound in place.
	name := s.String()
	id := c.nextID
	if index, match := c.shortcuts.Match(s.Accelerators()); match == shortcut.MatchExact {
		b := c.shortcuts.Binding(index)
		id = b.ID
		if existing := c.pool.CStr(b.Name); existing != "" {
			name = existing
		}
	}
	if err := c.shortcuts.Bind(id, name, command, s); err != nil {
		return err
	}
	if id == c.nextID {
		c.nextID++
	}
	return nil
}

// Unbind removes whatever runs for keys: a direct accelerator binding first,
// then any shortcut table entry with exactly that shortcut.
func (c *Commander) Unbind(keys string) error {
	s, err := types.ParseShortcut(keys)
	if err != nil {
		return err
	}
	if s.Len() == 1 {
		a := s.Accelerators()[0]
		if _, ok := c.accelerators.GetCommandString(a); ok {
			c.accelerators.Unbind(a)
			return nil
		}
	}
	chord := s.Accelerators()
	for i := 0; i < c.shortcuts.Count(); i++ {
		b := c.shortcuts.Binding(i)
		if b.Shortcut.Matches(chord) {
			c.shortcuts.Unbind(b.ID)
			return nil
		}
	}
	return fmt.Errorf("%s is not bound", s)
}

type defaultBinding struct {
	id       uint32
	name     string
	command  string
	shortcut string
}

var defaultBindings = []defaultBinding{
	{menu.StockNew, "new", "new", "Ctrl+N"},
	{menu.StockOpen, "open", "cmdbar open ", "Ctrl+O"},
	{menu.StockSave, "save", "save", "Ctrl+S"},
	{menu.StockSaveAs, "save-as", "cmdbar save-as ", "Ctrl+K,Ctrl+A"},
	{menu.StockSaveAll, "save-all", "save-all", "Ctrl+K,Ctrl+S"},
	{menu.StockClose, "close", "close", "Ctrl+W"},
	{menu.StockCloseAll, "close-all", "close-all", "Ctrl+K,Ctrl+W"},
	{menu.StockNext, "next", "next", "Alt+N"},
	{menu.StockPrevious, "prev", "prev", "Alt+P"},
	{menu.StockCommandBar, "cmdbar", "cmdbar", "Ctrl+P"},
	{menu.StockExit, "quit", "quit", "Ctrl+Q"},
}

// bindDefaults fills the stock shortcut and menu slots.
func (c *Commander) bindDefaults() error {
	for _, d := range defaultBindings {
		s, err := types.ParseShortcut(d.shortcut)
		if err != nil {
			return fmt.Errorf("default shortcut %q: %w", d.shortcut, err)
		}
		if err := c.shortcuts.Bind(d.id, d.name, d.command, s); err != nil {
			return err
		}
		if err := c.menu.Bind(d.id, d.command, d.name); err != nil {
			return err
		}
	}
	return nil
}
