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
	"strings"
	"unicode/utf8"

	"github.com/timburks/dred/commands"
	"github.com/timburks/dred/types"
)

func (c *Commander) processKeyCommandMode(a types.Accelerator) error {
	switch a.Key {
	case types.KeyEscape:
		c.mode = types.ModeEdit
		c.commandText = ""
	case types.KeyEnter:
		return c.performCommand()
	case types.KeyBackspace:
		if _, size := utf8.DecodeLastRuneInString(c.commandText); size > 0 {
			c.commandText = c.commandText[:len(c.commandText)-size]
		}
	case types.KeyTab:
		c.complete()
	default:
		if a.Key < types.KeyUnsupported && a.Modifiers&(types.ModCtrl|types.ModAlt) == 0 {
			c.commandText += string(rune(a.Key))
		}
	}
	return nil
}

// performCommand runs the command bar text and applies the command's flags.
func (c *Commander) performCommand() error {
	text := c.commandText
	var flags commands.Flags
	if strings.HasPrefix(strings.TrimSpace(text), "(") {
		flags = commands.ReleaseKeyboardOnExec
	} else if command, _, err := c.registry.FindCommand(text); err == nil {
		flags = command.Flags
	}
	err := c.ExecuteCommand(text)
	if err != nil {
		// keep the text so it can be corrected
		return err
	}
	if flags&commands.NoClearOnExec == 0 {
		c.commandText = ""
	}
	if flags&commands.ReleaseKeyboardOnExec != 0 && c.mode == types.ModeCommand {
		c.mode = types.ModeEdit
	}
	return nil
}

// complete extends the verb being typed to the longest prefix shared by the
// commands it could name, and lists them when there is more than one.
func (c *Commander) complete() {
	text := strings.TrimLeft(c.commandText, " ")
	if strings.ContainsRune(text, ' ') {
		return
	}
	matches := c.registry.CommandsStartingWith(text)
	switch len(matches) {
	case 0:
		c.setMessage("no command starts with %q", text)
	case 1:
		c.commandText = c.registry.Command(matches[0]).Name + " "
	default:
		names := make([]string, len(matches))
		for i, index := range matches {
			names[i] = c.registry.Command(index).Name
		}
		c.commandText = commonPrefix(names)
		c.setMessage("%s", strings.Join(names, " "))
	}
}

func commonPrefix(names []string) string {
	prefix := names[0]
	for _, name := range names[1:] {
		for !strings.HasPrefix(name, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
