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
package screen

import (
	"fmt"
	"strings"

	"github.com/nsf/termbox-go"

	"github.com/timburks/dred/commander"
	"github.com/timburks/dred/editor"
	"github.com/timburks/dred/types"
)

// The Screen draws the state of an Editor.
type Screen struct {
	size types.Size // screen size
	wake chan struct{}
}

func NewScreen() (*Screen, error) {
	// Open the terminal.
	if err := termbox.Init(); err != nil {
		return nil, err
	}
	termbox.SetOutputMode(termbox.Output256)
	s := &Screen{wake: make(chan struct{}, 1)}
	go s.forwardWakeups()
	return s, nil
}

func (s *Screen) Close() {
	termbox.Close()
}

// Notify makes a pending GetNextEvent return EventInterrupt. It never
// blocks and may be called from any goroutine.
func (s *Screen) Notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// termbox.Interrupt blocks until the event loop polls, so it gets its own
// goroutine.
func (s *Screen) forwardWakeups() {
	for range s.wake {
		termbox.Interrupt()
	}
}

func (s *Screen) GetNextEvent() Event {
	event := termbox.PollEvent()
	if event.Type == termbox.EventResize {
		termbox.Flush()
	}
	return translate(event)
}

func (s *Screen) Render(e *editor.Editor, c *commander.Commander) {
	termbox.Clear(termbox.ColorWhite, termbox.ColorBlack)
	s.size.Cols, s.size.Rows = termbox.Size()

	s.renderBuffer(e)
	s.renderMenuBar(c)
	s.renderInfoBar(e)
	s.renderMessageBar(c)
	if c.Mode() == types.ModeCommand {
		termbox.SetCursor(len(c.CommandText())+1, s.size.Rows-1)
	} else {
		termbox.HideCursor()
	}
	termbox.Flush()
}

func (s *Screen) text(col, row int, text string, fg, bg termbox.Attribute) {
	x := col
	for _, ch := range text {
		if x >= s.size.Cols {
			return
		}
		termbox.SetCell(x, row, ch, fg, bg)
		x++
	}
}

func (s *Screen) renderBuffer(e *editor.Editor) {
	b := e.GetBuffer()
	if b == nil {
		s.text(0, 0, "no documents open; Ctrl+O opens one", termbox.ColorCyan, termbox.ColorBlack)
		return
	}
	rows := s.size.Rows - 3
	for i := 0; i < rows && i < b.GetRowCount(); i++ {
		s.text(0, i, b.Row(i), termbox.ColorWhite, termbox.ColorBlack)
	}
}

func (s *Screen) renderMenuBar(c *commander.Commander) {
	var parts []string
	for _, item := range c.MenuItems() {
		if item.Shortcut != "" {
			parts = append(parts, item.Shortcut+" "+item.Command)
		}
	}
	s.text(0, s.size.Rows-3, strings.Join(parts, "  "), termbox.ColorYellow, termbox.ColorBlack)
}

func (s *Screen) renderInfoBar(e *editor.Editor) {
	name := "(none)"
	if b := e.GetBuffer(); b != nil {
		name = b.GetName()
		if b.Modified() {
			name += " *"
		}
	}
	finalText := fmt.Sprintf(" %d/%d ", e.ActiveIndex()+1, len(e.Documents()))
	text := " dred - " + name + " "
	for len(text) < s.size.Cols-len(finalText) {
		text += " "
	}
	text += finalText
	s.text(0, s.size.Rows-2, text, termbox.ColorBlack, termbox.ColorWhite)
}

func (s *Screen) renderMessageBar(c *commander.Commander) {
	s.text(0, s.size.Rows-1, c.GetMessageBarText(s.size.Cols), termbox.ColorWhite, termbox.ColorBlack)
}
