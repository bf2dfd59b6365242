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

// Package lock holds the advisory file lock that marks the leading editor
// process. The lock is taken without blocking and lives as long as the
// process keeps the Lock open; the system drops it when the process dies.
package lock

import (
	"errors"
	"fmt"
	"os"
)

// MaxPathLength bounds lock file paths.
const MaxPathLength = 256

var (
	// ErrLocked reports that another process holds the lock.
	ErrLocked      = errors.New("lock held by another process")
	ErrNameTooLong = errors.New("lock path too long")
)

type Lock struct {
	file *os.File
	path string
}

// TryLock opens or creates path and takes an exclusive lock on it. It fails
// with ErrLocked immediately rather than waiting.
func TryLock(path string) (*Lock, error) {
	if len(path) > MaxPathLength {
		return nil, fmt.Errorf("%w: %s", ErrNameTooLong, path)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock %s: %w", path, err)
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	return &Lock{file: f, path: path}, nil
}

func (l *Lock) Path() string {
	return l.path
}

// Close releases the lock. The file is left in place.
func (l *Lock) Close() error {
	if l.file == nil {
		return nil
	}
	err := unlockFile(l.file)
	if closeErr := l.file.Close(); err == nil {
		err = closeErr
	}
	l.file = nil
	return err
}
