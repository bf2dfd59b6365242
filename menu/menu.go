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

// Package menu binds menu item ids to command strings and to the name of the
// shortcut displayed next to the item. The built-in items use the stock ids
// below and are addressed in constant time.
package menu

import (
	"github.com/timburks/dred/binding"
	"github.com/timburks/dred/strpool"
)

// Stock menu item ids.
const (
	StockNew uint32 = iota
	StockOpen
	StockSave
	StockSaveAs
	StockSaveAll
	StockClose
	StockCloseAll
	StockNext
	StockPrevious
	StockCommandBar
	StockExit
	StockCount
)

const InitialCapacity = 64

type Binding struct {
	ID           uint32
	Command      strpool.Offset
	ShortcutName strpool.Offset
}

type payload struct {
	command      strpool.Offset
	shortcutName strpool.Offset
}

type Table struct {
	pool     *strpool.Pool
	bindings *binding.Table[payload]
}

func NewTable(pool *strpool.Pool) *Table {
	return &Table{pool: pool, bindings: binding.New[payload](int(StockCount), InitialCapacity)}
}

func (t *Table) SetLimit(limit int) {
	t.bindings.SetLimit(limit)
}

func (t *Table) Count() int {
	return t.bindings.Len()
}

func (t *Table) Binding(index int) Binding {
	entry := t.bindings.Entry(index)
	return Binding{ID: entry.ID, Command: entry.Payload.command, ShortcutName: entry.Payload.shortcutName}
}

func (t *Table) Bind(id uint32, command, shortcutName string) error {
	commandOffset, err := t.pool.FindOrAdd(command)
	if err != nil {
		return err
	}
	nameOffset, err := t.pool.FindOrAdd(shortcutName)
	if err != nil {
		return err
	}
	_, _, _, err = t.bindings.Bind(id, payload{command: commandOffset, shortcutName: nameOffset})
	return err
}

func (t *Table) Unbind(id uint32) bool {
	_, ok := t.bindings.Unbind(id, payload{})
	return ok
}

func (t *Table) Find(id uint32) (int, bool) {
	return t.bindings.Find(id)
}

func (t *Table) GetCommandString(id uint32) (string, bool) {
	index, ok := t.Find(id)
	if !ok {
		return "", false
	}
	return t.pool.CStr(t.bindings.Entry(index).Payload.command), true
}

func (t *Table) GetShortcutName(id uint32) (string, bool) {
	index, ok := t.Find(id)
	if !ok {
		return "", false
	}
	return t.pool.CStr(t.bindings.Entry(index).Payload.shortcutName), true
}

func (t *Table) Uninit() {
	t.bindings.Reset()
}
