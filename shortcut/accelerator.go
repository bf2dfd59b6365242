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
package shortcut

import (
	"slices"

	"github.com/timburks/dred/strpool"
	"github.com/timburks/dred/types"
	"github.com/timburks/dred/vec"
)

type acceleratorEntry struct {
	accelerator types.Accelerator
	command     strpool.Offset
	references  int // shortcuts that depend on this accelerator
}

// AcceleratorTable is the global table of key combinations the application
// wants to receive. Shortcut tables register their accelerators here, and
// single accelerators can also be bound directly to a command.
type AcceleratorTable struct {
	pool    *strpool.Pool
	entries *vec.Vector[acceleratorEntry]
}

func NewAcceleratorTable(pool *strpool.Pool) *AcceleratorTable {
	return &AcceleratorTable{pool: pool, entries: vec.New[acceleratorEntry](InitialCapacity)}
}

func (t *AcceleratorTable) SetLimit(limit int) {
	t.entries.SetLimit(limit)
}

func (t *AcceleratorTable) Count() int {
	return t.entries.Len()
}

func (t *AcceleratorTable) Find(accelerator types.Accelerator) (int, bool) {
	for i, entry := range t.entries.Items() {
		if entry.accelerator == accelerator {
			return i, true
		}
	}
	return -1, false
}

// IsRegistered reports whether key events for accelerator should reach the
// application.
func (t *AcceleratorTable) IsRegistered(accelerator types.Accelerator) bool {
	_, ok := t.Find(accelerator)
	return ok
}

// RegisterAccelerators adds a reference to each accelerator. If the table
// cannot grow, nothing is registered.
func (t *AcceleratorTable) RegisterAccelerators(accelerators ...types.Accelerator) error {
	fresh := 0
	for i, accelerator := range accelerators {
		if _, ok := t.Find(accelerator); !ok && !slices.Contains(accelerators[:i], accelerator) {
			fresh++
		}
	}
	if err := t.entries.Reserve(fresh); err != nil {
		return err
	}
	for _, accelerator := range accelerators {
		if index, ok := t.Find(accelerator); ok {
			t.entries.Ptr(index).references++
			continue
		}
		t.entries.Append(acceleratorEntry{accelerator: accelerator, references: 1})
	}
	return nil
}

func (t *AcceleratorTable) UnregisterAccelerators(accelerators ...types.Accelerator) {
	for _, accelerator := range accelerators {
		index, ok := t.Find(accelerator)
		if !ok {
			continue
		}
		entry := t.entries.Ptr(index)
		if entry.references > 0 {
			entry.references--
		}
		t.release(index)
	}
}

// Bind makes accelerator run command on its own, replacing any previous
// command for it.
func (t *AcceleratorTable) Bind(accelerator types.Accelerator, command string) error {
	offset, err := t.pool.FindOrAdd(command)
	if err != nil {
		return err
	}
	if index, ok := t.Find(accelerator); ok {
		t.entries.Ptr(index).command = offset
		return nil
	}
	return t.entries.Append(acceleratorEntry{accelerator: accelerator, command: offset})
}

func (t *AcceleratorTable) Unbind(accelerator types.Accelerator) bool {
	index, ok := t.Find(accelerator)
	if !ok {
		return false
	}
	t.entries.Ptr(index).command = strpool.Empty
	t.release(index)
	return true
}

func (t *AcceleratorTable) GetCommandString(accelerator types.Accelerator) (string, bool) {
	index, ok := t.Find(accelerator)
	if !ok {
		return "", false
	}
	command := t.entries.At(index).command
	if command == strpool.Empty {
		return "", false
	}
	return t.pool.CStr(command), true
}

func (t *AcceleratorTable) release(index int) {
	entry := t.entries.At(index)
	if entry.references == 0 && entry.command == strpool.Empty {
		t.entries.RemoveAt(index)
	}
}

func (t *AcceleratorTable) Uninit() {
	t.entries.Clear()
}
