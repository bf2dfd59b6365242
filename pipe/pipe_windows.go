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
//go:build windows

package pipe

import (
	"errors"
	"fmt"
	"net"

	"github.com/Microsoft/go-winio"
	"golang.org/x/sys/windows"
)

const (
	pipePrefix     = `\\.\pipe\`
	pipeBufferSize = 64 * 1024
)

// WindowsTransport serves named pipes in the \\.\pipe\ namespace. The first
// instance of a pipe is created exclusively, so Listen fails with
// ErrAlreadyExists while another process serves the name.
type WindowsTransport struct{}

// Default returns the transport for the running platform. dir is ignored.
func Default(dir string) Transport {
	return WindowsTransport{}
}

func (WindowsTransport) Exclusive() bool {
	return true
}

func (WindowsTransport) TranslateName(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return pipePrefix + name, nil
}

func (WindowsTransport) Listen(path string) (net.Listener, error) {
	l, err := winio.ListenPipe(path, &winio.PipeConfig{
		InputBufferSize:  pipeBufferSize,
		OutputBufferSize: pipeBufferSize,
	})
	if err != nil {
		if errors.Is(err, windows.ERROR_ALREADY_EXISTS) ||
			errors.Is(err, windows.ERROR_ACCESS_DENIED) ||
			errors.Is(err, windows.ERROR_PIPE_BUSY) {
			return nil, fmt.Errorf("listen %s: %w", path, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}
	return l, nil
}

func (WindowsTransport) Dial(path string) (net.Conn, error) {
	conn, err := winio.DialPipe(path, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", path, err)
	}
	return conn, nil
}

func (WindowsTransport) Busy(err error) bool {
	return errors.Is(err, winio.ErrTimeout) || errors.Is(err, windows.ERROR_PIPE_BUSY)
}

// Cleanup is a no-op: the system removes a pipe with its last handle.
func (WindowsTransport) Cleanup(path string) error {
	return nil
}
