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
package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// A Buffer is one open document.
type Buffer struct {
	name     string
	fileName string
	rows     []string
	modified bool
}

func NewBuffer(name string) *Buffer {
	return &Buffer{name: name, rows: []string{""}}
}

// ReadBuffer loads path. A file that does not exist yet opens empty and is
// created by the first save.
func ReadBuffer(path string) (*Buffer, error) {
	b := NewBuffer(filepath.Base(path))
	b.fileName = path
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return b, nil
	}
	if err != nil {
		return nil, err
	}
	b.LoadBytes(data)
	b.modified = false
	return b, nil
}

func (b *Buffer) GetName() string {
	return b.name
}

func (b *Buffer) GetFileName() string {
	return b.fileName
}

func (b *Buffer) SetFileName(path string) {
	b.fileName = path
	b.name = filepath.Base(path)
}

func (b *Buffer) Modified() bool {
	return b.modified
}

// We replace any tabs with spaces
func (b *Buffer) LoadBytes(data []byte) {
	lines := strings.Split(string(data), "\n")
	b.rows = make([]string, len(lines))
	for i, line := range lines {
		b.rows[i] = strings.ReplaceAll(line, "\t", "        ")
	}
	b.modified = true
}

func (b *Buffer) Bytes() []byte {
	return []byte(strings.Join(b.rows, "\n"))
}

func (b *Buffer) GetRowCount() int {
	return len(b.rows)
}

func (b *Buffer) Row(i int) string {
	if i < 0 || i >= len(b.rows) {
		return ""
	}
	return b.rows[i]
}

// WriteFile saves the buffer to path, formatting Go source on the way.
func (b *Buffer) WriteFile(path string) error {
	data := b.Bytes()
	if strings.HasSuffix(path, ".go") {
		if out, err := Gofmt(data); err == nil {
			data = out
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	b.modified = false
	return nil
}
