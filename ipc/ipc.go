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

// Package ipc frames the messages a follower sends to the running editor.
// Every message is a fixed header in host byte order followed by an optional
// payload:
//
//	magic u32 | kind u32 | size u32 | payload [size]byte
package ipc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Magic marks the start of every frame.
const Magic uint32 = 0x2F8A572D

// HeaderSize is the encoded size of Header.
const HeaderSize = 12

// MaxPayload is the largest payload a frame may carry.
const MaxPayload = 1<<31 - 1

var ErrProtocol = errors.New("ipc protocol error")

type Kind uint32

const (
	// Terminator ends a connection cleanly.
	Terminator Kind = iota
	// Activate raises the editor.
	Activate
	// Open carries an absolute path terminated by NUL.
	Open
)

func (k Kind) String() string {
	switch k {
	case Terminator:
		return "terminator"
	case Activate:
		return "activate"
	case Open:
		return "open"
	default:
		return fmt.Sprintf("kind(%d)", uint32(k))
	}
}

type Header struct {
	Magic uint32
	Kind  Kind
	Size  uint32
}

func (h Header) encode(b []byte) {
	binary.NativeEndian.PutUint32(b[0:], h.Magic)
	binary.NativeEndian.PutUint32(b[4:], uint32(h.Kind))
	binary.NativeEndian.PutUint32(b[8:], h.Size)
}

func decodeHeader(b []byte) Header {
	return Header{
		Magic: binary.NativeEndian.Uint32(b[0:]),
		Kind:  Kind(binary.NativeEndian.Uint32(b[4:])),
		Size:  binary.NativeEndian.Uint32(b[8:]),
	}
}

// PostMessage writes one frame. Header and payload go out as a single
// buffer, with short writes continued until the frame is complete.
func PostMessage(w io.Writer, kind Kind, payload []byte) error {
	if len(payload) > MaxPayload {
		return fmt.Errorf("%w: payload of %d bytes", ErrProtocol, len(payload))
	}
	frame := make([]byte, HeaderSize+len(payload))
	Header{Magic: Magic, Kind: kind, Size: uint32(len(payload))}.encode(frame)
	copy(frame[HeaderSize:], payload)

	for len(frame) > 0 {
		n, err := w.Write(frame)
		if err != nil {
			return fmt.Errorf("post %s: %w", kind, err)
		}
		if n == 0 {
			return fmt.Errorf("post %s: %w", kind, io.ErrShortWrite)
		}
		frame = frame[n:]
	}
	return nil
}

// ReadMessage reads one frame. A peer that closes between frames yields
// io.EOF; a frame cut short or with the wrong magic yields ErrProtocol.
func ReadMessage(r io.Reader) (Header, []byte, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return Header{}, nil, fmt.Errorf("%w: truncated header", ErrProtocol)
		}
		return Header{}, nil, err
	}
	h := decodeHeader(buf[:])
	if h.Magic != Magic {
		return h, nil, fmt.Errorf("%w: bad magic %#x", ErrProtocol, h.Magic)
	}
	if h.Size > MaxPayload {
		return h, nil, fmt.Errorf("%w: payload of %d bytes", ErrProtocol, h.Size)
	}
	if h.Size == 0 {
		return h, nil, nil
	}
	payload := make([]byte, h.Size)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return h, nil, fmt.Errorf("%w: truncated %s payload", ErrProtocol, h.Kind)
		}
		return h, nil, err
	}
	return h, payload, nil
}

// OpenPayload encodes path for an Open message.
func OpenPayload(path string) []byte {
	b := make([]byte, len(path)+1)
	copy(b, path)
	return b
}

// ParseOpenPayload returns the path carried by an Open message.
func ParseOpenPayload(b []byte) (string, error) {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return "", fmt.Errorf("%w: open payload is not terminated", ErrProtocol)
	}
	if i == 0 {
		return "", fmt.Errorf("%w: empty open path", ErrProtocol)
	}
	return string(b[:i]), nil
}
