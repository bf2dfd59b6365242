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
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckName(t *testing.T) {
	assert.NoError(t, checkName("alice.dred.pipe"))
	assert.ErrorIs(t, checkName(""), ErrInvalidArgument)
	assert.ErrorIs(t, checkName("a/b"), ErrInvalidArgument)
	assert.ErrorIs(t, checkName(`a\b`), ErrInvalidArgument)
	assert.NoError(t, checkName(strings.Repeat("x", MaxNameLength)))
	assert.ErrorIs(t, checkName(strings.Repeat("x", MaxNameLength+1)), ErrNameTooLong)
}

func TestAnonymousPair(t *testing.T) {
	r, w, err := OpenAnonymousPair()
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, ModeRead, r.Mode())
	assert.Equal(t, ModeWrite, w.Mode())

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.NoError(t, w.Close())

	buf := make([]byte, 5)
	require.NoError(t, r.ReadExact(buf))
	assert.Equal(t, "hello", string(buf))

	_, err = r.Read(buf)
	assert.Equal(t, io.EOF, err)
}

func TestModeEnforced(t *testing.T) {
	r, w, err := OpenAnonymousPair()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	_, err = r.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = w.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func testRoundTrip(t *testing.T, transport Transport, name string) {
	server, err := OpenNamedServer(transport, name, ModeReadWrite)
	require.NoError(t, err)
	defer server.Close()
	assert.Equal(t, name, server.Name())

	accepted := make(chan *Pipe, 1)
	go func() {
		p, err := server.Accept()
		if err == nil {
			accepted <- p
		}
		close(accepted)
	}()

	client, err := OpenNamedClient(transport, name, ModeReadWrite)
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, RoleClient, client.Role())

	p, ok := <-accepted
	require.True(t, ok)
	defer p.Close()
	assert.Equal(t, RoleServer, p.Role())

	go func() {
		_, _ = client.Write([]byte("ping"))
	}()
	buf := make([]byte, 4)
	require.NoError(t, p.ReadExact(buf))
	assert.Equal(t, "ping", string(buf))

	go func() {
		_, _ = p.Write([]byte("pong"))
	}()
	require.NoError(t, client.ReadExact(buf))
	assert.Equal(t, "pong", string(buf))
}

func TestMemoryRoundTrip(t *testing.T) {
	testRoundTrip(t, NewMemoryTransport(), "test.pipe")
}

func TestMemoryExclusive(t *testing.T) {
	transport := NewMemoryTransport()
	assert.True(t, transport.Exclusive())

	server, err := OpenNamedServer(transport, "one", ModeReadWrite)
	require.NoError(t, err)

	_, err = OpenNamedServer(transport, "one", ModeReadWrite)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	require.NoError(t, server.Close())
	again, err := OpenNamedServer(transport, "one", ModeReadWrite)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestMemoryDialWithoutServer(t *testing.T) {
	_, err := OpenNamedClient(NewMemoryTransport(), "nobody", ModeReadWrite)
	assert.Error(t, err)
}

func TestAcceptAfterClose(t *testing.T) {
	server, err := OpenNamedServer(NewMemoryTransport(), "closing", ModeReadWrite)
	require.NoError(t, err)
	require.NoError(t, server.Close())

	_, err = server.Accept()
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestOpenRejectsEmptyMode(t *testing.T) {
	_, err := OpenNamedServer(NewMemoryTransport(), "x", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
