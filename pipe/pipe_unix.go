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
//go:build !windows

package pipe

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// maxSocketPath is the capacity of sockaddr_un.sun_path, less the NUL.
var maxSocketPath = len(unix.RawSockaddrUnix{}.Path) - 1

// UnixTransport serves pipes as Unix domain sockets in a directory. It is not
// exclusive: callers hold a lock while they decide who serves.
type UnixTransport struct {
	Dir string
}

// Default returns the transport for the running platform rooted at dir.
func Default(dir string) Transport {
	if dir == "" {
		dir = os.TempDir()
	}
	return &UnixTransport{Dir: dir}
}

func (t *UnixTransport) Exclusive() bool {
	return false
}

func (t *UnixTransport) TranslateName(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	dir := t.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, name)
	if len(path) > maxSocketPath {
		return "", fmt.Errorf("%w: %s", ErrNameTooLong, path)
	}
	return path, nil
}

func (t *UnixTransport) Listen(path string) (net.Listener, error) {
	l, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		if errors.Is(err, unix.EADDRINUSE) {
			return nil, fmt.Errorf("listen %s: %w", path, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}
	l.SetUnlinkOnClose(true)
	return l, nil
}

func (t *UnixTransport) Dial(path string) (net.Conn, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", path, err)
	}
	return conn, nil
}

func (t *UnixTransport) Busy(err error) bool {
	return errors.Is(err, unix.EAGAIN)
}

func (t *UnixTransport) Cleanup(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
