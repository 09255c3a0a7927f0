// Copyright 2024 Roverkit Robotics <dev@roverkit.io>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package input

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeFrame(sec int64, usec int64, eventType uint16, code uint16, value int32) []byte {
	frame := make([]byte, eventFrameSize)
	binary.LittleEndian.PutUint64(frame[0:8], uint64(sec))
	binary.LittleEndian.PutUint64(frame[8:16], uint64(usec))
	binary.LittleEndian.PutUint16(frame[16:18], eventType)
	binary.LittleEndian.PutUint16(frame[18:20], code)
	binary.LittleEndian.PutUint32(frame[20:24], uint32(value))
	return frame
}

func TestDecodeEventFrame(t *testing.T) {
	event := decodeEventFrame(encodeFrame(1700000000, 250000, EvKey, 304, KeyDown))

	assert.Equal(t, EvKey, event.Type)
	assert.Equal(t, uint16(304), event.Code)
	assert.Equal(t, KeyDown, event.Value)
	assert.Equal(t, time.Unix(1700000000, 250000*int64(time.Microsecond)), event.Time)
}

func TestEventScanner(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(encodeFrame(10, 0, EvKey, 304, KeyDown))
	stream.Write(encodeFrame(10, 5000, EvSyn, 0, 0))
	stream.Write(encodeFrame(11, 0, EvKey, 304, KeyUp))

	scanner := NewEventScanner(&stream)

	event, err := scanner.Next()
	require.NoError(t, err)
	assert.Equal(t, uint16(304), event.Code)
	assert.True(t, event.IsKeyDown())

	event, err = scanner.Next()
	require.NoError(t, err)
	assert.Equal(t, EvSyn, event.Type)
	assert.False(t, event.IsKeyDown())

	event, err = scanner.Next()
	require.NoError(t, err)
	assert.Equal(t, KeyUp, event.Value)
	assert.False(t, event.IsKeyDown())

	_, err = scanner.Next()
	assert.Equal(t, io.EOF, err)
}

func TestEventScannerTruncatedFrame(t *testing.T) {
	stream := bytes.NewBuffer(encodeFrame(10, 0, EvKey, 304, KeyDown)[:10])

	scanner := NewEventScanner(stream)

	_, err := scanner.Next()
	assert.Equal(t, io.EOF, err)
}

func TestIsKeyDownIgnoresRepeats(t *testing.T) {
	event := decodeEventFrame(encodeFrame(10, 0, EvKey, 307, KeyRepeat))
	assert.False(t, event.IsKeyDown())
}
