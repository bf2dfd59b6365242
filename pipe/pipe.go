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
	"io"
	"net"
	"os"
	"strings"
	"time"
)

// Mode selects the capabilities of a pipe end.
type Mode uint8

const (
	ModeRead Mode = 1 << iota
	ModeWrite
	ModeReadWrite = ModeRead | ModeWrite
)

type Role int

const (
	RoleServer Role = iota
	RoleClient
)

const (
	// MaxNameLength bounds logical names and the paths derived from them.
	MaxNameLength = 256
	// MaxIO is the largest byte count moved by a single Read or Write.
	MaxIO = 1<<31 - 1
)

// retryInterval is how long OpenNamedClient waits before retrying a busy pipe.
var retryInterval = 10 * time.Millisecond

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNameTooLong     = errors.New("pipe name too long")
	ErrAlreadyExists   = errors.New("pipe already exists")
	ErrClosed          = errors.New("pipe closed")
)

// Transport is the platform specific part of the package.
type Transport interface {
	// Exclusive reports whether Listen fails when another process already
	// serves the path, making server creation usable as a lock.
	Exclusive() bool
	// TranslateName maps a logical name to the platform namespace.
	TranslateName(name string) (string, error)
	Listen(path string) (net.Listener, error)
	Dial(path string) (net.Conn, error)
	// Busy reports whether a Dial error is transient.
	Busy(err error) bool
	// Cleanup removes whatever a dead server left behind at path.
	Cleanup(path string) error
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: pipe name %q", ErrInvalidArgument, name)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(name))
	}
	return nil
}

func checkMode(mode Mode) error {
	if mode&ModeReadWrite == 0 {
		return fmt.Errorf("%w: mode must include read or write", ErrInvalidArgument)
	}
	return nil
}

// Pipe is one connected end of a transport.
type Pipe struct {
	rwc  io.ReadWriteCloser
	mode Mode
	role Role
}

func newPipe(rwc io.ReadWriteCloser, mode Mode, role Role) *Pipe {
	return &Pipe{rwc: rwc, mode: mode, role: role}
}

func (p *Pipe) Mode() Mode {
	return p.mode
}

func (p *Pipe) Role() Role {
	return p.role
}

// Read reads at most MaxIO bytes. io.EOF is returned unwrapped when the peer
// has closed its end.
func (p *Pipe) Read(b []byte) (int, error) {
	if p.mode&ModeRead == 0 {
		return 0, fmt.Errorf("%w: pipe is not readable", ErrInvalidArgument)
	}
	if len(b) > MaxIO {
		b = b[:MaxIO]
	}
	n, err := p.rwc.Read(b)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("pipe read: %w", err)
	}
	return n, err
}

// ReadExact reads until b is full or an error occurs.
func (p *Pipe) ReadExact(b []byte) error {
	_, err := io.ReadFull(p, b)
	return err
}

// Write writes at most MaxIO bytes and returns how many were written.
func (p *Pipe) Write(b []byte) (int, error) {
	if p.mode&ModeWrite == 0 {
		return 0, fmt.Errorf("%w: pipe is not writable", ErrInvalidArgument)
	}
	if len(b) > MaxIO {
		b = b[:MaxIO]
	}
	n, err := p.rwc.Write(b)
	if err != nil {
		err = fmt.Errorf("pipe write: %w", err)
	}
	return n, err
}

func (p *Pipe) Close() error {
	return p.rwc.Close()
}

// Server is a listening named pipe.
type Server struct {
	transport Transport
	listener  net.Listener
	name      string
	path      string
	mode      Mode
}

// OpenNamedServer starts serving name. On exclusive transports the error
// wraps ErrAlreadyExists when another server owns the name.
func OpenNamedServer(t Transport, name string, mode Mode) (*Server, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}
	path, err := t.TranslateName(name)
	if err != nil {
		return nil, err
	}
	listener, err := t.Listen(path)
	if err != nil {
		return nil, err
	}
	return &Server{transport: t, listener: listener, name: name, path: path, mode: mode}, nil
}

func (s *Server) Name() string {
	return s.name
}

func (s *Server) Path() string {
	return s.path
}

// Accept waits for the next client. It returns an error wrapping ErrClosed
// once the server has been closed.
func (s *Server) Accept() (*Pipe, error) {
	conn, err := s.listener.Accept()
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, fmt.Errorf("accept %s: %w", s.path, ErrClosed)
		}
		return nil, fmt.Errorf("accept %s: %w", s.path, err)
	}
	return newPipe(conn, s.mode, RoleServer), nil
}

// Close stops listening and removes the backing file where there is one.
func (s *Server) Close() error {
	err := s.listener.Close()
	if cleanupErr := s.transport.Cleanup(s.path); err == nil {
		err = cleanupErr
	}
	return err
}

// OpenNamedClient connects to the server for name, retrying for as long as
// the server reports itself busy.
func OpenNamedClient(t Transport, name string, mode Mode) (*Pipe, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}
	path, err := t.TranslateName(name)
	if err != nil {
		return nil, err
	}
	for {
		conn, err := t.Dial(path)
		if err == nil {
			return newPipe(conn, mode, RoleClient), nil
		}
		if !t.Busy(err) {
			return nil, err
		}
		time.Sleep(retryInterval)
	}
}

// OpenAnonymousPair returns the two ends of an unnamed pipe. Bytes written to
// the write end are read from the read end.
func OpenAnonymousPair() (*Pipe, *Pipe, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, nil, fmt.Errorf("anonymous pipe: %w", err)
	}
	return newPipe(r, ModeRead, RoleServer), newPipe(w, ModeWrite, RoleClient), nil
}
