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

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roverkit/robolog/journal"
	"github.com/roverkit/robolog/uploader"
)

// pushCmd represents the push command
var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the pending journal events to the fleet platform",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := uploader.PlatformClient(Verbose)
		if err != nil {
			logger.Fatal(err)
		}

		robotID := viper.GetString("robot")
		robot, err := uploader.GetRobot(client, robotID)
		if err != nil {
			logger.Fatal(err)
		}

		j, err := openJournal()
		if err != nil {
			logger.Fatal(err)
		}
		defer j.Destroy()

		count, err := runPushCmd(client, j, robotID, viper.GetInt("upload.batch_size"))
		if err != nil {
			logger.Fatal(err)
		}

		fmt.Printf("Pushed %d events for robot %q\n", count, robot.Name)
	},
}

func runPushCmd(client *resty.Client, j journal.Journal, robotID string, batchSize int) (int, error) {
	pendingBefore, err := j.RetrievePending(context.Background(), -1)
	if err != nil {
		return 0, err
	}

	worker := &uploader.Worker{
		Client:    client,
		Journal:   j,
		RobotID:   robotID,
		BatchSize: batchSize,
	}
	if err := worker.Drain(context.Background()); err != nil {
		return 0, err
	}

	return len(pendingBefore), nil
}

func init() {
	rootCmd.AddCommand(pushCmd)
}
