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

// Package vec provides the owned growable array used by the binding tables
// and the string pool. Capacity starts at a caller supplied size and doubles
// on demand; an optional limit turns runaway growth into ErrOutOfMemory
// instead of a runtime panic, and a failed grow leaves the vector untouched.
package vec

import "errors"

var ErrOutOfMemory = errors.New("out of memory")

type Vector[T any] struct {
	items   []T
	initial int
	limit   int // maximum length, 0 for unlimited
}

// New returns an empty vector. The backing array is allocated lazily, on the
// first append, with the initial capacity.
func New[T any](initial int) *Vector[T] {
	if initial < 1 {
		initial = 1
	}
	return &Vector[T]{initial: initial}
}

// SetLimit caps the number of items the vector may hold.
func (v *Vector[T]) SetLimit(limit int) {
	v.limit = limit
}

func (v *Vector[T]) Len() int {
	return len(v.items)
}

func (v *Vector[T]) Cap() int {
	return cap(v.items)
}

func (v *Vector[T]) At(i int) T {
	return v.items[i]
}

// Ptr returns a pointer to the i'th item; it is invalidated by the next grow.
func (v *Vector[T]) Ptr(i int) *T {
	return &v.items[i]
}

func (v *Vector[T]) Set(i int, item T) {
	v.items[i] = item
}

// Items exposes the live items without copying.
func (v *Vector[T]) Items() []T {
	return v.items
}

// Reserve makes room for at least n more items.
func (v *Vector[T]) Reserve(n int) error {
	needed := len(v.items) + n
	if v.limit > 0 && needed > v.limit {
		return ErrOutOfMemory
	}
	if needed <= cap(v.items) {
		return nil
	}
	capacity := cap(v.items)
	if capacity == 0 {
		capacity = v.initial
	}
	for capacity < needed {
		capacity *= 2
	}
	if v.limit > 0 && capacity > v.limit {
		capacity = v.limit
	}
	items := make([]T, len(v.items), capacity)
	copy(items, v.items)
	v.items = items
	return nil
}

func (v *Vector[T]) Append(items ...T) error {
	if err := v.Reserve(len(items)); err != nil {
		return err
	}
	v.items = append(v.items, items...)
	return nil
}

// RemoveAt deletes the i'th item, shifting later items down by one.
func (v *Vector[T]) RemoveAt(i int) {
	copy(v.items[i:], v.items[i+1:])
	var zero T
	v.items[len(v.items)-1] = zero
	v.items = v.items[:len(v.items)-1]
}

// Clear drops every item and releases the backing array.
func (v *Vector[T]) Clear() {
	v.items = nil
}
