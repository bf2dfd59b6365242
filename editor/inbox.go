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
	"sync"

	"github.com/timburks/dred/types"
)

type request struct {
	activate bool
	path     string
}

// An Inbox receives requests from other launches on any goroutine and
// replays them on the goroutine that owns the Editor.
type Inbox struct {
	mu       sync.Mutex
	requests []request
	notify   func()
}

// NewInbox returns an inbox that calls notify, if set, after each request
// arrives.
func NewInbox(notify func()) *Inbox {
	return &Inbox{notify: notify}
}

func (in *Inbox) push(r request) {
	in.mu.Lock()
	in.requests = append(in.requests, r)
	in.mu.Unlock()
	if in.notify != nil {
		in.notify()
	}
}

func (in *Inbox) ActivateRequested() {
	in.push(request{activate: true})
}

func (in *Inbox) OpenRequested(path string) {
	in.push(request{path: path})
}

// Drain applies the queued requests to e in arrival order and reports how
// many there were.
func (in *Inbox) Drain(e types.Editor) int {
	in.mu.Lock()
	requests := in.requests
	in.requests = nil
	in.mu.Unlock()

	for _, r := range requests {
		if r.activate {
			e.Activate()
			continue
		}
		if err := e.Open(r.path); err != nil {
			e.SetMessage(err.Error())
		}
	}
	return len(requests)
}
