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
	"path/filepath"
	"sort"
	"strings"
)

var devInputDir = "/dev/input"

// DeviceInfo describes one discovered evdev node.
type DeviceInfo struct {
	Path  string
	Name  string
	Alias string
}

// Discover enumerates the evdev nodes available on the system, together with
// their sysfs names and their /dev/input/by-id aliases when present.
func Discover() ([]DeviceInfo, error) {
	entries, err := os.ReadDir(devInputDir)
	if err != nil {
		return nil, err
	}

	aliases := discoverAliases()

	var devices []DeviceInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "event") {
			continue
		}
		nodePath := path.Join(devInputDir, entry.Name())
		devices = append(devices, DeviceInfo{
			Path:  nodePath,
			Name:  deviceName(nodePath),
			Alias: aliases[nodePath],
		})
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Path < devices[j].Path
	})
	return devices, nil
}

func discoverAliases() map[string]string {
	aliases := make(map[string]string)

	byIDDir := path.Join(devInputDir, "by-id")
	entries, err := os.ReadDir(byIDDir)
	if err != nil {
		// by-id only exists when udev populated it
		return aliases
	}

	for _, entry := range entries {
		linkPath := path.Join(byIDDir, entry.Name())
		target, err := filepath.EvalSymlinks(linkPath)
		if err != nil {
			continue
		}
		aliases[target] = entry.Name()
	}
	return aliases
}
