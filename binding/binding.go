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

// Package binding implements the id keyed table shared by the shortcut and
// menu item tables. Ids below the stock count live at the array index equal
// to the id and are never physically removed; other ids are appended after
// them and found by a linear scan.
package binding

import "github.com/timburks/dred/vec"

type Entry[T any] struct {
	ID      uint32
	Payload T
}

type Table[T any] struct {
	entries *vec.Vector[Entry[T]]
	stock   int
}

// New returns a table with stock entries pre-allocated at ids [0, stock).
func New[T any](stock, initialCapacity int) *Table[T] {
	t := &Table[T]{entries: vec.New[Entry[T]](initialCapacity), stock: stock}
	t.allocateStock()
	return t
}

// allocateStock cannot fail: SetLimit never drops below the stock count.
func (t *Table[T]) allocateStock() {
	t.entries.Reserve(t.stock)
	for id := 0; id < t.stock; id++ {
		t.entries.Append(Entry[T]{ID: uint32(id)})
	}
}

// SetLimit bounds the total number of entries, stock entries included. A
// limit below the stock count is raised to it.
func (t *Table[T]) SetLimit(limit int) {
	if limit > 0 && limit < t.stock {
		limit = t.stock
	}
	t.entries.SetLimit(limit)
}

func (t *Table[T]) Stock() int {
	return t.stock
}

func (t *Table[T]) IsStock(id uint32) bool {
	return int64(id) < int64(t.stock)
}

func (t *Table[T]) Len() int {
	return t.entries.Len()
}

func (t *Table[T]) Cap() int {
	return t.entries.Cap()
}

func (t *Table[T]) Entry(index int) Entry[T] {
	return t.entries.At(index)
}

// Find returns the index of id.
func (t *Table[T]) Find(id uint32) (int, bool) {
	if t.IsStock(id) {
		return int(id), true
	}
	items := t.entries.Items()
	for i := t.stock; i < len(items); i++ {
		if items[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// FindFunc returns the index of the first entry accepted by match.
func (t *Table[T]) FindFunc(match func(Entry[T]) bool) (int, bool) {
	for i, entry := range t.entries.Items() {
		if match(entry) {
			return i, true
		}
	}
	return -1, false
}

// Bind replaces the payload of id in place, or appends a new entry. The
// previous payload is returned when one was replaced. On error the table is
// unchanged.
func (t *Table[T]) Bind(id uint32, payload T) (index int, previous T, replaced bool, err error) {
	if index, ok := t.Find(id); ok {
		entry := t.entries.Ptr(index)
		previous = entry.Payload
		entry.Payload = payload
		return index, previous, true, nil
	}
	if err := t.entries.Append(Entry[T]{ID: id, Payload: payload}); err != nil {
		return -1, previous, false, err
	}
	return t.entries.Len() - 1, previous, false, nil
}

// Unbind removes id. Stock entries keep their slot and have their payload
// reset to cleared. The removed payload is returned.
func (t *Table[T]) Unbind(id uint32, cleared T) (T, bool) {
	var previous T
	index, ok := t.Find(id)
	if !ok {
		return previous, false
	}
	previous = t.entries.At(index).Payload
	if t.IsStock(id) {
		t.entries.Set(index, Entry[T]{ID: id, Payload: cleared})
	} else {
		t.entries.RemoveAt(index)
	}
	return previous, true
}

// Reset frees the backing array and restores the empty stock entries.
func (t *Table[T]) Reset() {
	t.entries.Clear()
	t.allocateStock()
}
