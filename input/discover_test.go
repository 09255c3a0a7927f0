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
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	tmpDir := t.TempDir()

	previousDevInputDir := devInputDir
	previousSysInputDir := sysInputDir
	devInputDir = path.Join(tmpDir, "dev", "input")
	sysInputDir = path.Join(tmpDir, "sys", "class", "input")
	defer func() {
		devInputDir = previousDevInputDir
		sysInputDir = previousSysInputDir
	}()

	require.NoError(t, os.MkdirAll(devInputDir, 0750))
	require.NoError(t, os.WriteFile(path.Join(devInputDir, "event0"), nil, 0600))
	require.NoError(t, os.WriteFile(path.Join(devInputDir, "event1"), nil, 0600))
	require.NoError(t, os.WriteFile(path.Join(devInputDir, "mouse0"), nil, 0600))

	require.NoError(t, os.MkdirAll(path.Join(sysInputDir, "event1", "device"), 0750))
	require.NoError(t, os.WriteFile(path.Join(sysInputDir, "event1", "device", "name"), []byte("Xbox Wireless Controller\n"), 0600))

	byIDDir := path.Join(devInputDir, "by-id")
	require.NoError(t, os.MkdirAll(byIDDir, 0750))
	require.NoError(t, os.Symlink(path.Join(devInputDir, "event1"), path.Join(byIDDir, "usb-Microsoft_Controller-event-joystick")))

	devices, err := Discover()
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal(t, path.Join(devInputDir, "event0"), devices[0].Path)
	assert.Equal(t, "event0", devices[0].Name)
	assert.Empty(t, devices[0].Alias)

	assert.Equal(t, "Xbox Wireless Controller", devices[1].Name)
	assert.Equal(t, "usb-Microsoft_Controller-event-joystick", devices[1].Alias)
}

func TestDiscoverMissingDir(t *testing.T) {
	previousDevInputDir := devInputDir
	devInputDir = path.Join(t.TempDir(), "nope")
	defer func() { devInputDir = previousDevInputDir }()

	_, err := Discover()
	assert.Error(t, err)
}
