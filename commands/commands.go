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
package commands

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

type Flags uint32

const (
	ReleaseKeyboardOnExec Flags = 1 << iota // leave the command bar after running
	NoClearOnExec                           // keep the command bar text after running
)

// SystemCommandName is the verb of the command at index 0.
const SystemCommandName = "!"

var (
	ErrCommandNotFound   = errors.New("command not found")
	ErrInvalidDefinition = errors.New("invalid command definition")
)

// Proc runs a command with the argument text that followed its name.
type Proc func(args string) error

type Command struct {
	Name  string
	Proc  Proc
	Flags Flags
}

type Registry struct {
	commands []Command
	index    map[string]int
}

// New builds a registry from definitions. The first definition must be the
// system command "!".
func New(definitions []Command) (*Registry, error) {
	if len(definitions) == 0 || definitions[0].Name != SystemCommandName {
		return nil, fmt.Errorf("%w: the first command must be %q", ErrInvalidDefinition, SystemCommandName)
	}
	r := &Registry{
		commands: make([]Command, len(definitions)),
		index:    make(map[string]int, len(definitions)),
	}
	for i, definition := range definitions {
		switch {
		case definition.Name == "":
			return nil, fmt.Errorf("%w: command %d has no name", ErrInvalidDefinition, i)
		case strings.IndexFunc(definition.Name, unicode.IsSpace) >= 0:
			return nil, fmt.Errorf("%w: %q contains whitespace", ErrInvalidDefinition, definition.Name)
		case definition.Proc == nil:
			return nil, fmt.Errorf("%w: %q has no handler", ErrInvalidDefinition, definition.Name)
		}
		if _, exists := r.index[definition.Name]; exists {
			return nil, fmt.Errorf("%w: %q is defined twice", ErrInvalidDefinition, definition.Name)
		}
		r.commands[i] = definition
		r.index[definition.Name] = i
	}
	return r, nil
}

func (r *Registry) Len() int {
	return len(r.commands)
}

func (r *Registry) Command(index int) Command {
	return r.commands[index]
}

// Names returns every command name in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.commands))
	for i, command := range r.commands {
		names[i] = command.Name
	}
	return names
}

// FindCommandIndex returns the stable index of the command called name.
func (r *Registry) FindCommandIndex(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

// FindCommand splits a command line into its command and argument text.
func (r *Registry) FindCommand(commandLine string) (Command, string, error) {
	line := strings.TrimLeftFunc(commandLine, unicode.IsSpace)
	if line == "" {
		return Command{}, "", fmt.Errorf("%w: empty command line", ErrCommandNotFound)
	}
	if strings.HasPrefix(line, SystemCommandName) {
		return r.commands[0], strings.TrimLeftFunc(line[len(SystemCommandName):], unicode.IsSpace), nil
	}
	verb, args := line, ""
	if end := strings.IndexFunc(line, unicode.IsSpace); end >= 0 {
		verb = line[:end]
		args = strings.TrimLeftFunc(line[end:], unicode.IsSpace)
	}
	i, ok := r.index[verb]
	if !ok {
		return Command{}, "", fmt.Errorf("%w: %s", ErrCommandNotFound, verb)
	}
	return r.commands[i], args, nil
}

// FindCommandsStartingWith stores into indices the index of every command
// whose name begins with prefix, in registration order, and returns how many
// commands matched. Call it with nil indices to size the buffer first.
func (r *Registry) FindCommandsStartingWith(prefix string, indices []int) int {
	count := 0
	for i, command := range r.commands {
		if !strings.HasPrefix(command.Name, prefix) {
			continue
		}
		if count < len(indices) {
			indices[count] = i
		}
		count++
	}
	return count
}

// CommandsStartingWith runs both passes of FindCommandsStartingWith.
func (r *Registry) CommandsStartingWith(prefix string) []int {
	indices := make([]int, r.FindCommandsStartingWith(prefix, nil))
	r.FindCommandsStartingWith(prefix, indices)
	return indices
}
