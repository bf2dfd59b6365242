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

// Package shortcut maps shortcut ids and key chords to command strings.
// Names and commands are interned in the owning context's string pool.
package shortcut

import (
	"github.com/timburks/dred/binding"
	"github.com/timburks/dred/strpool"
	"github.com/timburks/dred/types"
)

const InitialCapacity = 16

// Binding is one row of the shortcut table.
type Binding struct {
	ID       uint32
	Name     strpool.Offset
	Command  strpool.Offset
	Shortcut types.Shortcut
}

type payload struct {
	name     strpool.Offset
	command  strpool.Offset
	shortcut types.Shortcut
}

// Match describes how a chord relates to the bound shortcuts.
type Match int

const (
	MatchNone    Match = iota // no shortcut starts with the chord
	MatchPartial              // the chord is the start of a longer shortcut
	MatchExact                // the chord is a complete shortcut
)

type Table struct {
	pool      *strpool.Pool
	bindings  *binding.Table[payload]
	registrar types.Registrar
}

// NewTable creates a table backed by pool. Ids in [0, stock) are addressed
// directly. registrar may be nil.
func NewTable(pool *strpool.Pool, stock int, registrar types.Registrar) *Table {
	return &Table{
		pool:      pool,
		bindings:  binding.New[payload](stock, InitialCapacity),
		registrar: registrar,
	}
}

func (t *Table) SetLimit(limit int) {
	t.bindings.SetLimit(limit)
}

func (t *Table) Count() int {
	return t.bindings.Len()
}

func (t *Table) Binding(index int) Binding {
	entry := t.bindings.Entry(index)
	return Binding{
		ID:       entry.ID,
		Name:     entry.Payload.name,
		Command:  entry.Payload.command,
		Shortcut: entry.Payload.shortcut,
	}
}

// Bind associates id with a name, a command string and a shortcut. An
// existing binding for id is replaced in place.
func (t *Table) Bind(id uint32, name, command string, shortcut types.Shortcut) error {
	nameOffset, err := t.pool.FindOrAdd(name)
	if err != nil {
		return err
	}
	commandOffset, err := t.pool.FindOrAdd(command)
	if err != nil {
		return err
	}
	if t.registrar != nil {
		if err := t.registrar.RegisterAccelerators(shortcut.Accelerators()...); err != nil {
			return err
		}
	}
	_, previous, replaced, err := t.bindings.Bind(id, payload{
		name:     nameOffset,
		command:  commandOffset,
		shortcut: shortcut,
	})
	if err != nil {
		if t.registrar != nil {
			t.registrar.UnregisterAccelerators(shortcut.Accelerators()...)
		}
		return err
	}
	if replaced && t.registrar != nil {
		t.registrar.UnregisterAccelerators(previous.shortcut.Accelerators()...)
	}
	return nil
}

// Unbind removes the binding for id; stock ids keep their slot with an empty
// name and command.
func (t *Table) Unbind(id uint32) bool {
	previous, ok := t.bindings.Unbind(id, payload{})
	if ok && t.registrar != nil {
		t.registrar.UnregisterAccelerators(previous.shortcut.Accelerators()...)
	}
	return ok
}

func (t *Table) Find(id uint32) (int, bool) {
	return t.bindings.Find(id)
}

func (t *Table) FindByName(name string) (int, bool) {
	if name == "" {
		return -1, false
	}
	offset, ok := t.pool.Find(name)
	if !ok {
		return -1, false
	}
	return t.bindings.FindFunc(func(entry binding.Entry[payload]) bool {
		return entry.Payload.name == offset
	})
}

// Match looks for the first binding whose shortcut equals chord. When none
// does, it reports whether some longer shortcut starts with chord.
func (t *Table) Match(chord []types.Accelerator) (int, Match) {
	if len(chord) == 0 {
		return -1, MatchNone
	}
	result := MatchNone
	for i := 0; i < t.bindings.Len(); i++ {
		shortcut := t.bindings.Entry(i).Payload.shortcut
		if shortcut.Matches(chord) {
			return i, MatchExact
		}
		if shortcut.Len() > len(chord) && shortcut.HasPrefix(chord) {
			result = MatchPartial
		}
	}
	return -1, result
}

func (t *Table) GetCommandString(id uint32) (string, bool) {
	index, ok := t.Find(id)
	if !ok {
		return "", false
	}
	return t.pool.CStr(t.bindings.Entry(index).Payload.command), true
}

func (t *Table) GetName(id uint32) (string, bool) {
	index, ok := t.Find(id)
	if !ok {
		return "", false
	}
	return t.pool.CStr(t.bindings.Entry(index).Payload.name), true
}

// GetShortcut returns the chord bound to id.
func (t *Table) GetShortcut(id uint32) (types.Shortcut, bool) {
	index, ok := t.Find(id)
	if !ok {
		return types.Shortcut{}, false
	}
	return t.bindings.Entry(index).Payload.shortcut, true
}

// Uninit frees the backing array.
func (t *Table) Uninit() {
	if t.registrar != nil {
		for i := 0; i < t.bindings.Len(); i++ {
			t.registrar.UnregisterAccelerators(t.bindings.Entry(i).Payload.shortcut.Accelerators()...)
		}
	}
	t.bindings.Reset()
}
