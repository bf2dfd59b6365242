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
package strpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinel(t *testing.T) {
	p := New(nil)
	assert.Equal(t, "", p.CStr(Empty))
	assert.Equal(t, 1, p.Len())

	offset, ok := p.Find("")
	assert.True(t, ok)
	assert.Equal(t, Empty, offset)
}

func TestFindOrAddIsIdempotent(t *testing.T) {
	p := New(nil)
	for _, s := range []string{"save", "Ctrl+S", "open ~/notes.txt", "save"} {
		first, err := p.FindOrAdd(s)
		require.NoError(t, err)
		length := p.Len()

		second, err := p.FindOrAdd(s)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, length, p.Len())
		assert.Equal(t, s, p.CStr(second))
	}
}

func TestAddAlwaysAppends(t *testing.T) {
	p := New(nil)
	a, err := p.Add("quit")
	require.NoError(t, err)
	b, err := p.Add("quit")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	found, ok := p.Find("quit")
	assert.True(t, ok)
	assert.Equal(t, a, found)
}

func TestOffsetsSurviveGrowth(t *testing.T) {
	p := New(nil)
	first, err := p.Add("first")
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		_, err := p.Add("filler string that forces the buffer to grow")
		require.NoError(t, err)
	}
	assert.Equal(t, "first", p.CStr(first))
}

func TestFindDoesNotMatchSuffix(t *testing.T) {
	p := New(nil)
	_, err := p.Add("save-all")
	require.NoError(t, err)
	_, ok := p.Find("all")
	assert.False(t, ok)
}

func TestSeed(t *testing.T) {
	p := New([]byte("open\x00close"))
	offset, ok := p.Find("close")
	require.True(t, ok)
	assert.Equal(t, Offset(6), offset)
	assert.Equal(t, "", p.CStr(Empty))
}

func TestRejectsNul(t *testing.T) {
	p := New(nil)
	_, err := p.Add("a\x00b")
	assert.ErrorIs(t, err, ErrInvalidString)
}

func TestOutOfMemoryLeavesPoolUnchanged(t *testing.T) {
	p := New(nil)
	p.SetLimit(8)
	_, err := p.Add("abc")
	require.NoError(t, err)
	length := p.Len()

	_, err = p.Add("too long for the pool")
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, length, p.Len())
}
