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

package cmd

import (
	"fmt"
	"strings"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	"github.com/roverkit/robolog/input"
)

// devicesCmd represents the devices command
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the input devices available on this robot",
	Run: func(cmd *cobra.Command, args []string) {
		devices, err := input.Discover()
		if err != nil {
			logger.Fatal(err)
		}
		fmt.Println(formatDevices(devices))
	},
}

func formatDevices(devices []input.DeviceInfo) string {
	output := []string{strings.Join([]string{"PATH", "NAME", "ID"}, "|")}
	for _, device := range devices {
		alias := device.Alias
		if alias == "" {
			alias = "N/A"
		}
		output = append(output, strings.Join([]string{device.Path, device.Name, alias}, "|"))
	}
	return columnize.SimpleFormat(output)
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
