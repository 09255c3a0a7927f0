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
	"context"
	"fmt"
	"os"
	"path"
	"strings"
)

// DefaultDevicePath is where the USB controller usually shows up on the
// robots, find the actual node with `robolog devices`.
const DefaultDevicePath = "/dev/input/event4"

var sysInputDir = "/sys/class/input"

// NotFoundError is raised when the device node doesn't exist
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("controller not found at %q, check connection and path", e.Path)
}

// PermissionError is raised when the device node can't be opened by the
// current user
type PermissionError struct {
	Path string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied opening %q, add the user to the `input` group or run as root", e.Path)
}

// Device is an open evdev device node.
type Device struct {
	path string
	name string
	file *os.File
}

// OpenDevice opens an evdev node such as /dev/input/event4. The device name
// is resolved through sysfs, falling back to the node basename.
func OpenDevice(devicePath string) (*Device, error) {
	file, err := os.Open(devicePath)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{Path: devicePath}
	}
	if os.IsPermission(err) {
		return nil, &PermissionError{Path: devicePath}
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open input device %q: %w", devicePath, err)
	}

	return &Device{
		path: devicePath,
		name: deviceName(devicePath),
		file: file,
	}, nil
}

func deviceName(devicePath string) string {
	node := path.Base(devicePath)
	name, err := os.ReadFile(path.Join(sysInputDir, node, "device", "name"))
	if err != nil {
		return node
	}
	return strings.TrimSpace(string(name))
}

func (d *Device) Path() string {
	return d.path
}

func (d *Device) Name() string {
	return d.name
}

func (d *Device) Close() error {
	return d.file.Close()
}

// ReadKeys delivers EV_KEY events to out until the context is done or the
// device read fails. Cancelling the context closes the device node, which
// unblocks the pending read.
func (d *Device) ReadKeys(ctx context.Context, out chan<- KeyEvent) error {
	readerDone := make(chan struct{})
	defer close(readerDone)
	go func() {
		select {
		case <-ctx.Done():
			d.file.Close()
		case <-readerDone:
		}
	}()

	scanner := NewEventScanner(d.file)
	for {
		event, err := scanner.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("unable to read from input device %q: %w", d.path, err)
		}

		if event.Type != EvKey {
			continue
		}

		select {
		case out <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
