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

// Editor modes
const (
	ModeEdit    = 0
	ModeCommand = 1
	ModeQuit    = 9999
)

type Size struct {
	Rows int
	Cols int
}

// Editor is the document host that commands and IPC requests act on.
type Editor interface {
	Open(path string) error
	New()
	Save() error
	SaveAs(path string) error
	SaveAll() error
	Close() error
	CloseAll()
	Next()
	Previous()
	Activate()
	Documents() []string
	ActiveIndex() int
	SetMessage(message string)
	GetMessage() string
}

// Host receives requests forwarded by other launches of the editor.
type Host interface {
	ActivateRequested()
	OpenRequested(path string)
}

// Registrar is told about every accelerator that a binding depends on, so the
// input layer can decide which key combinations are worth reporting.
type Registrar interface {
	RegisterAccelerators(accelerators ...Accelerator) error
	UnregisterAccelerators(accelerators ...Accelerator)
}
