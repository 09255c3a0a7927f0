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
	"encoding/binary"
	"io"
	"time"
)

// Event type codes from the kernel input subsystem (linux/input-event-codes.h)
const (
	EvSyn uint16 = 0x00
	EvKey uint16 = 0x01
	EvRel uint16 = 0x02
	EvAbs uint16 = 0x03
)

// Key transition values carried by EV_KEY events
const (
	KeyUp     int32 = 0
	KeyDown   int32 = 1
	KeyRepeat int32 = 2
)

// eventFrameSize is the size of a struct input_event on 64 bit platforms:
// two int64 for the timeval, two uint16 and one int32.
const eventFrameSize = 24

// KeyEvent is a single decoded input event as read from an evdev device node.
type KeyEvent struct {
	Time  time.Time
	Type  uint16
	Code  uint16
	Value int32
}

// IsKeyDown reports whether the event is a key press transition. Auto-repeat
// and release transitions do not count.
func (e KeyEvent) IsKeyDown() bool {
	return e.Type == EvKey && e.Value == KeyDown
}

func decodeEventFrame(frame []byte) KeyEvent {
	sec := int64(binary.LittleEndian.Uint64(frame[0:8]))
	usec := int64(binary.LittleEndian.Uint64(frame[8:16]))
	return KeyEvent{
		Time:  time.Unix(sec, usec*int64(time.Microsecond)),
		Type:  binary.LittleEndian.Uint16(frame[16:18]),
		Code:  binary.LittleEndian.Uint16(frame[18:20]),
		Value: int32(binary.LittleEndian.Uint32(frame[20:24])),
	}
}

// EventScanner decodes consecutive input_event frames from a reader.
type EventScanner struct {
	reader io.Reader
	frame  [eventFrameSize]byte
}

func NewEventScanner(reader io.Reader) *EventScanner {
	return &EventScanner{reader: reader}
}

// Next blocks until a full frame is available and returns the decoded event.
// It returns io.EOF once the underlying reader is exhausted.
func (s *EventScanner) Next() (KeyEvent, error) {
	if _, err := io.ReadFull(s.reader, s.frame[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return KeyEvent{}, err
	}
	return decodeEventFrame(s.frame[:]), nil
}
