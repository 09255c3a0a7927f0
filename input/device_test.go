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
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDeviceNotFound(t *testing.T) {
	_, err := OpenDevice(path.Join(t.TempDir(), "event99"))

	notFoundErr := &NotFoundError{}
	require.ErrorAs(t, err, &notFoundErr)
	assert.Contains(t, notFoundErr.Error(), "event99")
}

func TestOpenDeviceResolvesSysfsName(t *testing.T) {
	tmpDir := t.TempDir()
	devicePath := path.Join(tmpDir, "event0")
	require.NoError(t, os.WriteFile(devicePath, nil, 0600))

	previousSysInputDir := sysInputDir
	sysInputDir = path.Join(tmpDir, "sys")
	defer func() { sysInputDir = previousSysInputDir }()

	require.NoError(t, os.MkdirAll(path.Join(sysInputDir, "event0", "device"), 0750))
	require.NoError(t, os.WriteFile(path.Join(sysInputDir, "event0", "device", "name"), []byte("Xbox Wireless Controller\n"), 0600))

	device, err := OpenDevice(devicePath)
	require.NoError(t, err)
	defer device.Close()

	assert.Equal(t, "Xbox Wireless Controller", device.Name())
	assert.Equal(t, devicePath, device.Path())
}

func TestOpenDeviceNameFallsBackToNode(t *testing.T) {
	tmpDir := t.TempDir()
	devicePath := path.Join(tmpDir, "event3")
	require.NoError(t, os.WriteFile(devicePath, nil, 0600))

	device, err := OpenDevice(devicePath)
	require.NoError(t, err)
	defer device.Close()

	assert.Equal(t, "event3", device.Name())
}

func TestReadKeysFiltersNonKeyEvents(t *testing.T) {
	reader, writer, err := os.Pipe()
	require.NoError(t, err)

	device := &Device{path: "pipe", name: "test-pad", file: reader}

	out := make(chan KeyEvent, 8)
	errs := make(chan error, 1)
	go func() {
		errs <- device.ReadKeys(context.Background(), out)
	}()

	writer.Write(encodeFrame(10, 0, EvKey, 304, KeyDown))
	writer.Write(encodeFrame(10, 100, EvSyn, 0, 0))
	writer.Write(encodeFrame(10, 200, EvAbs, 3, 120))
	writer.Write(encodeFrame(11, 0, EvKey, 304, KeyUp))
	writer.Close()

	err = <-errs
	assert.ErrorContains(t, err, "unable to read from input device")

	close(out)
	var received []KeyEvent
	for event := range out {
		received = append(received, event)
	}
	require.Len(t, received, 2)
	assert.True(t, received[0].IsKeyDown())
	assert.Equal(t, KeyUp, received[1].Value)
}

func TestReadKeysStopsOnContextCancellation(t *testing.T) {
	reader, writer, err := os.Pipe()
	require.NoError(t, err)
	defer writer.Close()

	device := &Device{path: "pipe", name: "test-pad", file: reader}

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan KeyEvent)
	errs := make(chan error, 1)
	go func() {
		errs <- device.ReadKeys(ctx, out)
	}()

	cancel()

	select {
	case err := <-errs:
		assert.Equal(t, context.Canceled, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ReadKeys didn't stop on context cancellation")
	}
}
