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
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roverkit/robolog/camera"
	"github.com/roverkit/robolog/helper"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot [TAG]",
	Short: "Capture a camera frame",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tag := "manual"
		if len(args) > 0 {
			tag = args[0]
		}

		outputDir := viper.GetString("snapshot.dir")
		if outputDir == "" {
			outputDir = "."
		}

		capturer := &camera.Capturer{
			Binary:    viper.GetString("snapshot.binary"),
			OutputDir: outputDir,
		}

		snapshot, err := capturer.Capture(context.Background(), tag)
		if err != nil {
			logger.Fatal(err)
		}

		fmt.Println(helper.PrettyPrint(snapshot))
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
