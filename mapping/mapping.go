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

package mapping

import (
	"fmt"
	"os"

	"github.com/imdario/mergo"
	"gopkg.in/yaml.v2"
)

// Mapping relates evdev key codes to operator action labels.
type Mapping map[uint16]string

// Default returns the factory button layout of the fleet controllers, key
// codes as reported by evtest on the Xbox pads.
func Default() Mapping {
	return Mapping{
		304: "intersection",
		305: "lane_departure",
		307: "intervention",
		308: "slow_down",
		315: "other",
	}
}

type mappingFile struct {
	Codes map[uint16]string `yaml:"codes"`
}

// Load returns the action mapping to use. An empty filename selects the
// default layout, otherwise the file's entries are merged over the defaults.
func Load(filename string) (Mapping, error) {
	if filename == "" {
		return Default(), nil
	}
	return LoadFile(filename)
}

// LoadFile reads a YAML mapping file ("codes: {<code>: <label>}"). Codes
// missing from the file keep their default label.
func LoadFile(filename string) (Mapping, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to read mapping file %q: %w", filename, err)
	}

	content := mappingFile{}
	if err := yaml.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("unable to parse mapping file %q: %w", filename, err)
	}
	if len(content.Codes) == 0 {
		return nil, fmt.Errorf("no codes defined in mapping file %q", filename)
	}

	merged := Mapping(content.Codes)
	if err := mergo.Merge(&merged, Default()); err != nil {
		return nil, err
	}
	return merged, nil
}

// Resolve returns the action label for a key code.
func (m Mapping) Resolve(code uint16) (string, bool) {
	action, ok := m[code]
	return action, ok
}

// Actions returns the set of labels the mapping can produce.
func (m Mapping) Actions() []string {
	seen := make(map[string]struct{})
	actions := []string{}
	for _, action := range m {
		if _, ok := seen[action]; ok {
			continue
		}
		seen[action] = struct{}{}
		actions = append(actions, action)
	}
	return actions
}
