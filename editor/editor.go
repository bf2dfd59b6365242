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
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/timburks/dred/logging"
)

var (
	ErrNoDocument = errors.New("no document is open")
	ErrNoFileName = errors.New("document has no file name")
)

// The Editor keeps the open documents and which one is active.
type Editor struct {
	buffers     []*Buffer
	active      int
	activations int
	untitled    int
	message     string
	logger      *zap.Logger
}

func NewEditor(logger *zap.Logger) *Editor {
	return &Editor{active: -1, logger: logging.OrNop(logger).Named("editor")}
}

func (e *Editor) find(path string) int {
	for i, b := range e.buffers {
		if b.fileName == path {
			return i
		}
	}
	return -1
}

// Open makes path the active document, reading it unless it is already open.
func (e *Editor) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if i := e.find(abs); i >= 0 {
		e.active = i
		return nil
	}
	b, err := ReadBuffer(abs)
	if err != nil {
		e.logger.Warn("open failed", zap.String("path", abs), zap.Error(err))
		return err
	}
	e.buffers = append(e.buffers, b)
	e.active = len(e.buffers) - 1
	e.logger.Info("opened", zap.String("path", abs))
	return nil
}

func (e *Editor) New() {
	e.untitled++
	e.buffers = append(e.buffers, NewBuffer(fmt.Sprintf("untitled-%d", e.untitled)))
	e.active = len(e.buffers) - 1
}

// GetBuffer returns the active document, or nil.
func (e *Editor) GetBuffer() *Buffer {
	if e.active < 0 {
		return nil
	}
	return e.buffers[e.active]
}

func (e *Editor) Save() error {
	b := e.GetBuffer()
	if b == nil {
		return ErrNoDocument
	}
	if b.fileName == "" {
		return fmt.Errorf("%w: use save-as", ErrNoFileName)
	}
	return b.WriteFile(b.fileName)
}

func (e *Editor) SaveAs(path string) error {
	b := e.GetBuffer()
	if b == nil {
		return ErrNoDocument
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := b.WriteFile(abs); err != nil {
		return err
	}
	b.SetFileName(abs)
	return nil
}

// SaveAll saves every document that has a file name.
func (e *Editor) SaveAll() error {
	var errs []error
	for _, b := range e.buffers {
		if b.fileName == "" {
			continue
		}
		if err := b.WriteFile(b.fileName); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *Editor) Close() error {
	if e.active < 0 {
		return ErrNoDocument
	}
	e.buffers = append(e.buffers[:e.active], e.buffers[e.active+1:]...)
	if e.active >= len(e.buffers) {
		e.active = len(e.buffers) - 1
	}
	return nil
}

func (e *Editor) CloseAll() {
	e.buffers = nil
	e.active = -1
}

func (e *Editor) Next() {
	if len(e.buffers) > 0 {
		e.active = (e.active + 1) % len(e.buffers)
	}
}

func (e *Editor) Previous() {
	if len(e.buffers) > 0 {
		e.active = (e.active + len(e.buffers) - 1) % len(e.buffers)
	}
}

// Activate brings the editor to the front. In a terminal that only means
// telling the user another launch asked for it.
func (e *Editor) Activate() {
	e.activations++
	e.message = "activated by another launch"
}

func (e *Editor) Activations() int {
	return e.activations
}

func (e *Editor) Documents() []string {
	names := make([]string, len(e.buffers))
	for i, b := range e.buffers {
		names[i] = b.name
	}
	return names
}

func (e *Editor) ActiveIndex() int {
	return e.active
}

func (e *Editor) SetMessage(message string) {
	e.message = message
}

func (e *Editor) GetMessage() string {
	return e.message
}
