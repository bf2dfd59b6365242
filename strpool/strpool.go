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

// Package strpool stores a small number of long lived strings in one growing
// byte buffer and hands out stable offsets in place of the strings. The
// strings are NUL terminated inside the buffer; offset 0 is always the empty
// string.
package strpool

import (
	"bytes"
	"errors"
	"strings"

	"github.com/timburks/dred/vec"
)

// Offset addresses a string in a Pool.
type Offset int

// Empty is the offset of the empty string in every pool.
const Empty Offset = 0

const initialCapacity = 256

var (
	ErrOutOfMemory   = vec.ErrOutOfMemory
	ErrInvalidString = errors.New("string contains a NUL byte")
)

type Pool struct {
	data *vec.Vector[byte]
}

// New creates a pool. seed holds NUL separated strings that are interned up
// front; it may be nil.
func New(seed []byte) *Pool {
	p := &Pool{data: vec.New[byte](initialCapacity)}
	p.data.Append(0)
	if len(seed) > 0 {
		p.data.Append(seed...)
		if seed[len(seed)-1] != 0 {
			p.data.Append(0)
		}
	}
	return p
}

// SetLimit bounds the number of bytes the pool may grow to.
func (p *Pool) SetLimit(limit int) {
	p.data.SetLimit(limit)
}

// Len is the number of bytes in use, terminators included.
func (p *Pool) Len() int {
	return p.data.Len()
}

// Add appends s even if an equal string is already stored.
func (p *Pool) Add(s string) (Offset, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return Empty, ErrInvalidString
	}
	if s == "" {
		return Empty, nil
	}
	offset := Offset(p.data.Len())
	if err := p.data.Reserve(len(s) + 1); err != nil {
		return Empty, err
	}
	p.data.Append([]byte(s)...)
	p.data.Append(0)
	return offset, nil
}

// Find returns the offset of the first stored string equal to s.
func (p *Pool) Find(s string) (Offset, bool) {
	if s == "" {
		return Empty, true
	}
	data := p.data.Items()
	for start := 0; start < len(data); {
		end := bytes.IndexByte(data[start:], 0)
		if end < 0 {
			break
		}
		if string(data[start:start+end]) == s {
			return Offset(start), true
		}
		start += end + 1
	}
	return Empty, false
}

// FindOrAdd interns s: repeated calls with the same text return the same
// offset and do not grow the pool.
func (p *Pool) FindOrAdd(s string) (Offset, error) {
	if offset, ok := p.Find(s); ok {
		return offset, nil
	}
	return p.Add(s)
}

// CStr returns the string stored at offset. Offsets that were not returned by
// Add or FindOrAdd give unspecified results; out of range offsets give "".
func (p *Pool) CStr(offset Offset) string {
	data := p.data.Items()
	if offset < 0 || int(offset) >= len(data) {
		return ""
	}
	end := bytes.IndexByte(data[offset:], 0)
	if end < 0 {
		return string(data[offset:])
	}
	return string(data[offset : int(offset)+end])
}

// Reset releases the backing buffer and restores the empty pool.
func (p *Pool) Reset() {
	p.data.Clear()
	p.data.Append(0)
}
