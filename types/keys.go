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
package types

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Key is either a unicode code point or one of the named keys below.
type Key uint32

// Named keys live above the unicode range so they never collide with runes.
const (
	KeyUnsupported Key = 0x110000 + iota
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

const KeySpace Key = ' '

type Modifiers uint32

const (
	ModCtrl Modifiers = 1 << iota
	ModShift
	ModAlt
)

// MaxShortcutLength is the longest chord a Shortcut can hold.
const MaxShortcutLength = 4

var (
	ErrInvalidAccelerator = errors.New("invalid accelerator")
	ErrShortcutTooLong    = fmt.Errorf("shortcut has more than %d accelerators", MaxShortcutLength)
)

var keyNames = map[Key]string{
	KeyEscape:     "Esc",
	KeyEnter:      "Enter",
	KeyTab:        "Tab",
	KeyBackspace:  "Backspace",
	KeyDelete:     "Delete",
	KeyInsert:     "Insert",
	KeyHome:       "Home",
	KeyEnd:        "End",
	KeyPageUp:     "PageUp",
	KeyPageDown:   "PageDown",
	KeyArrowUp:    "Up",
	KeyArrowDown:  "Down",
	KeyArrowLeft:  "Left",
	KeyArrowRight: "Right",
	KeySpace:      "Space",
}

func init() {
	for i := 0; i < 12; i++ {
		keyNames[KeyF1+Key(i)] = fmt.Sprintf("F%d", i+1)
	}
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k < 0x110000 && unicode.IsPrint(rune(k)) {
		return string(rune(k))
	}
	return fmt.Sprintf("Key(%#x)", uint32(k))
}

// Accelerator is a single key plus modifiers.
type Accelerator struct {
	Key       Key
	Modifiers Modifiers
}

// NewAccelerator normalizes letters to upper case when Ctrl or Alt is held,
// which is how terminals and parsed bindings agree on a spelling.
func NewAccelerator(key Key, modifiers Modifiers) Accelerator {
	if modifiers&(ModCtrl|ModAlt) != 0 && key < 0x110000 {
		key = Key(unicode.ToUpper(rune(key)))
	}
	return Accelerator{Key: key, Modifiers: modifiers}
}

func (a Accelerator) String() string {
	var b strings.Builder
	if a.Modifiers&ModCtrl != 0 {
		b.WriteString("Ctrl+")
	}
	if a.Modifiers&ModShift != 0 {
		b.WriteString("Shift+")
	}
	if a.Modifiers&ModAlt != 0 {
		b.WriteString("Alt+")
	}
	b.WriteString(a.Key.String())
	return b.String()
}

// ParseAccelerator reads forms like "Ctrl+S", "Alt+Shift+F4" or "Esc".
func ParseAccelerator(text string) (Accelerator, error) {
	trimmed := strings.TrimSpace(text)
	plus := strings.HasSuffix(trimmed, "++") || trimmed == "+"
	if plus {
		trimmed = strings.TrimSuffix(trimmed, "+")
	}
	parts := strings.Split(trimmed, "+")
	var modifiers Modifiers
	for _, part := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "ctrl", "control":
			modifiers |= ModCtrl
		case "shift":
			modifiers |= ModShift
		case "alt", "meta":
			modifiers |= ModAlt
		default:
			return Accelerator{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidAccelerator, part, text)
		}
	}
	name := strings.TrimSpace(parts[len(parts)-1])
	if plus {
		// "Ctrl++" names the plus key itself
		return NewAccelerator('+', modifiers), nil
	}
	if name == "" {
		return Accelerator{}, fmt.Errorf("%w: missing key in %q", ErrInvalidAccelerator, text)
	}
	runes := []rune(name)
	if len(runes) == 1 {
		return NewAccelerator(Key(runes[0]), modifiers), nil
	}
	for key, keyName := range keyNames {
		if strings.EqualFold(keyName, name) {
			return NewAccelerator(key, modifiers), nil
		}
	}
	return Accelerator{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidAccelerator, name, text)
}

// Shortcut is an ordered chord of up to MaxShortcutLength accelerators.
type Shortcut struct {
	accelerators [MaxShortcutLength]Accelerator
	count        int
}

func NewShortcut(accelerators ...Accelerator) (Shortcut, error) {
	var s Shortcut
	if len(accelerators) > MaxShortcutLength {
		return s, ErrShortcutTooLong
	}
	s.count = copy(s.accelerators[:], accelerators)
	return s, nil
}

// ParseShortcut reads a comma separated chord such as "Ctrl+K,Ctrl+W".
func ParseShortcut(text string) (Shortcut, error) {
	if strings.TrimSpace(text) == "" {
		return Shortcut{}, nil
	}
	var accelerators []Accelerator
	for _, part := range strings.Split(text, ",") {
		a, err := ParseAccelerator(part)
		if err != nil {
			return Shortcut{}, err
		}
		accelerators = append(accelerators, a)
	}
	return NewShortcut(accelerators...)
}

func (s Shortcut) Len() int {
	return s.count
}

func (s Shortcut) Accelerators() []Accelerator {
	return append([]Accelerator(nil), s.accelerators[:s.count]...)
}

// Matches reports whether chord is exactly this shortcut.
func (s Shortcut) Matches(chord []Accelerator) bool {
	return s.count > 0 && len(chord) == s.count && s.HasPrefix(chord)
}

// HasPrefix reports whether chord is a leading part of this shortcut.
func (s Shortcut) HasPrefix(chord []Accelerator) bool {
	if len(chord) > s.count {
		return false
	}
	for i, a := range chord {
		if s.accelerators[i] != a {
			return false
		}
	}
	return true
}

func (s Shortcut) String() string {
	names := make([]string, s.count)
	for i := 0; i < s.count; i++ {
		names[i] = s.accelerators[i].String()
	}
	return strings.Join(names, ",")
}
