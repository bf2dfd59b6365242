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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// socketDir returns a short directory for sockets; t.TempDir paths can
// exceed the sun_path limit.
func socketDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("/tmp", "pipe-")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestUnixRoundTrip(t *testing.T) {
	testRoundTrip(t, Default(socketDir(t)), "round.pipe")
}

func TestUnixTranslateName(t *testing.T) {
	transport := &UnixTransport{Dir: "/tmp"}
	path, err := transport.TranslateName("bob.dred.pipe")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/bob.dred.pipe", path)

	_, err = transport.TranslateName(strings.Repeat("n", 200))
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func TestUnixNotExclusive(t *testing.T) {
	transport := Default(socketDir(t))
	assert.False(t, transport.Exclusive())

	server, err := OpenNamedServer(transport, "busy.pipe", ModeReadWrite)
	require.NoError(t, err)
	defer server.Close()

	_, err = OpenNamedServer(transport, "busy.pipe", ModeReadWrite)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUnixCleanupStaleSocket(t *testing.T) {
	dir := socketDir(t)
	transport := Default(dir)
	path := filepath.Join(dir, "stale.pipe")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := OpenNamedClient(transport, "stale.pipe", ModeReadWrite)
	assert.Error(t, err)

	require.NoError(t, transport.Cleanup(path))
	require.NoError(t, transport.Cleanup(path))

	server, err := OpenNamedServer(transport, "stale.pipe", ModeReadWrite)
	require.NoError(t, err)
	require.NoError(t, server.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
