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
package pipe

import (
	"errors"
	"fmt"
	"net"
	"sync"
)

var errBacklogFull = errors.New("memory pipe backlog full")

// MemoryTransport keeps named pipes inside the process. It is exclusive, so
// a second Listen on a served path fails with ErrAlreadyExists.
type MemoryTransport struct {
	mu        sync.Mutex
	listeners map[string]*memoryListener
	backlog   int
}

func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{listeners: make(map[string]*memoryListener), backlog: 8}
}

func (t *MemoryTransport) Exclusive() bool {
	return true
}

func (t *MemoryTransport) TranslateName(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return "mem:" + name, nil
}

func (t *MemoryTransport) Listen(path string) (net.Listener, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.listeners[path]; ok {
		return nil, fmt.Errorf("listen %s: %w", path, ErrAlreadyExists)
	}
	l := &memoryListener{
		transport: t,
		path:      path,
		conns:     make(chan net.Conn, t.backlog),
		done:      make(chan struct{}),
	}
	t.listeners[path] = l
	return l, nil
}

func (t *MemoryTransport) Dial(path string) (net.Conn, error) {
	t.mu.Lock()
	l, ok := t.listeners[path]
	t.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("dial %s: %w", path, net.ErrClosed)
	}
	server, client := net.Pipe()
	select {
	case <-l.done:
		return nil, fmt.Errorf("dial %s: %w", path, net.ErrClosed)
	case l.conns <- server:
		return client, nil
	default:
		return nil, fmt.Errorf("dial %s: %w", path, errBacklogFull)
	}
}

func (t *MemoryTransport) Busy(err error) bool {
	return errors.Is(err, errBacklogFull)
}

func (t *MemoryTransport) Cleanup(path string) error {
	return nil
}

func (t *MemoryTransport) remove(l *memoryListener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listeners[l.path] == l {
		delete(t.listeners, l.path)
	}
}

type memoryListener struct {
	transport *MemoryTransport
	path      string
	conns     chan net.Conn
	done      chan struct{}
	once      sync.Once
}

func (l *memoryListener) Accept() (net.Conn, error) {
	select {
	case conn := <-l.conns:
		return conn, nil
	case <-l.done:
		return nil, net.ErrClosed
	}
}

func (l *memoryListener) Close() error {
	l.once.Do(func() {
		close(l.done)
		l.transport.remove(l)
	})
	return nil
}

func (l *memoryListener) Addr() net.Addr {
	return memoryAddr(l.path)
}

type memoryAddr string

func (a memoryAddr) Network() string { return "memory" }
func (a memoryAddr) String() string  { return string(a) }
