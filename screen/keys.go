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
	"github.com/nsf/termbox-go"

	"github.com/timburks/dred/types"
)

const (
	EventNone = iota
	EventKey
	EventResize
	EventInterrupt
	EventError
)

// An Event is a terminal event with keys already translated to accelerators.
type Event struct {
	Type        int
	Accelerator types.Accelerator
	Err         error
}

var namedKeys = map[termbox.Key]types.Key{
	termbox.KeyEsc:        types.KeyEscape,
	termbox.KeyEnter:      types.KeyEnter,
	termbox.KeyTab:        types.KeyTab,
	termbox.KeyBackspace:  types.KeyBackspace,
	termbox.KeyBackspace2: types.KeyBackspace,
	termbox.KeyDelete:     types.KeyDelete,
	termbox.KeyInsert:     types.KeyInsert,
	termbox.KeyHome:       types.KeyHome,
	termbox.KeyEnd:        types.KeyEnd,
	termbox.KeyPgup:       types.KeyPageUp,
	termbox.KeyPgdn:       types.KeyPageDown,
	termbox.KeyArrowUp:    types.KeyArrowUp,
	termbox.KeyArrowDown:  types.KeyArrowDown,
	termbox.KeyArrowLeft:  types.KeyArrowLeft,
	termbox.KeyArrowRight: types.KeyArrowRight,
	termbox.KeySpace:      types.KeySpace,
	termbox.KeyF1:         types.KeyF1,
	termbox.KeyF2:         types.KeyF2,
	termbox.KeyF3:         types.KeyF3,
	termbox.KeyF4:         types.KeyF4,
	termbox.KeyF5:         types.KeyF5,
	termbox.KeyF6:         types.KeyF6,
	termbox.KeyF7:         types.KeyF7,
	termbox.KeyF8:         types.KeyF8,
	termbox.KeyF9:         types.KeyF9,
	termbox.KeyF10:        types.KeyF10,
	termbox.KeyF11:        types.KeyF11,
	termbox.KeyF12:        types.KeyF12,
}

// accelerator translates a termbox key event. Control characters that
// terminals share with named keys (Tab, Enter, Backspace) stay named keys.
func accelerator(event termbox.Event) types.Accelerator {
	var modifiers types.Modifiers
	if event.Mod&termbox.ModAlt != 0 {
		modifiers |= types.ModAlt
	}
	if event.Ch != 0 {
		return types.NewAccelerator(types.Key(event.Ch), modifiers)
	}
	if key, ok := namedKeys[event.Key]; ok {
		return types.NewAccelerator(key, modifiers)
	}
	if event.Key >= termbox.KeyCtrlA && event.Key <= termbox.KeyCtrlZ {
		return types.NewAccelerator(types.Key('A'+event.Key-termbox.KeyCtrlA), modifiers|types.ModCtrl)
	}
	return types.NewAccelerator(types.KeyUnsupported, modifiers)
}

func translate(event termbox.Event) Event {
	switch event.Type {
	case termbox.EventKey:
		return Event{Type: EventKey, Accelerator: accelerator(event)}
	case termbox.EventResize:
		return Event{Type: EventResize}
	case termbox.EventInterrupt:
		return Event{Type: EventInterrupt}
	case termbox.EventError:
		return Event{Type: EventError, Err: event.Err}
	default:
		return Event{Type: EventNone}
	}
}
