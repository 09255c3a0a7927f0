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
	"math"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roverkit/robolog/journal"
	"github.com/roverkit/robolog/uploader"
)

var colorize = []func(format string, a ...interface{}) string{
	color.BlackString,
	color.RedString,
	color.GreenString,
	color.YellowString,
	color.BlueString,
	color.MagentaString,
	color.CyanString,
	color.WhiteString,
}

var coloredAction = make(map[string]func(format string, a ...interface{}) string)

func getColoredAction(action string) string {
	colorIdx := int(math.Mod(float64(len(coloredAction)), float64(len(colorize))))

	if _, ok := coloredAction[action]; !ok {
		coloredAction[action] = colorize[colorIdx]
	}

	return coloredAction[action](action)
}

// tailCmd represents the tail command
var tailCmd = &cobra.Command{
	Use:   "tail [options] [ACTION...]",
	Short: "Print the actions recorded in the journal",
	Run: func(cmd *cobra.Command, args []string) {
		remote, err := cmd.Flags().GetBool("remote")
		if err != nil {
			logger.Fatal(err)
		}
		if remote {
			if err := runRemoteTailCmd(args); err != nil {
				logger.Fatal(err)
			}
			return
		}

		j, err := openJournal()
		if err != nil {
			logger.Fatal(err)
		}
		defer j.Destroy()

		tail, err := cmd.Flags().GetInt("tail")
		if err != nil {
			logger.Fatal(err)
		}

		follow, err := cmd.Flags().GetBool("follow")
		if err != nil {
			logger.Fatal(err)
		}

		fmt.Println(columnize.SimpleFormat([]string{strings.Join([]string{"TIMESTAMP", "ACTION", "DEVICE", "SESSION"}, "|")}))

		filter := journal.EventFilter{Actions: args}
		var lastTs time.Time
		for {
			result, err := j.RetrieveEvents(context.Background(), filter, 0, -1)
			if err != nil {
				logger.Fatal(err)
			}

			events := result.Events
			if tail > 0 && len(events) > tail {
				events = events[len(events)-tail:]
			}

			for _, event := range events {
				fmt.Println(formatEvent(event))
				lastTs = event.At
			}

			if !follow {
				return
			}

			if !lastTs.IsZero() {
				filter.Since = lastTs.Add(time.Millisecond)
			}
			tail = 0
			time.Sleep(2 * time.Second)
		}
	},
}

// runRemoteTailCmd prints the events already recorded on the platform,
// paging through the search results.
func runRemoteTailCmd(actions []string) error {
	client, err := uploader.PlatformClient(Verbose)
	if err != nil {
		return err
	}
	robotID := viper.GetString("robot")

	fmt.Println(columnize.SimpleFormat([]string{strings.Join([]string{"TIMESTAMP", "ACTION", "DEVICE", "SESSION"}, "|")}))

	printed := 0
	for page := 1; ; page++ {
		result, err := uploader.SearchEvents(client, robotID, actions, page)
		if err != nil {
			return err
		}

		for _, remoteEvent := range result.Results {
			sec, frac := math.Modf(remoteEvent.Timestamp)
			fmt.Println(formatEvent(&journal.Event{
				Action:  remoteEvent.Action,
				Code:    remoteEvent.Code,
				Device:  remoteEvent.Device,
				Session: remoteEvent.SessionID,
				At:      time.Unix(int64(sec), int64(frac*float64(time.Second))),
			}))
		}

		printed += len(result.Results)
		if len(result.Results) == 0 || printed >= result.Total {
			return nil
		}
	}
}

func formatEvent(event *journal.Event) string {
	row := []string{
		event.At.UTC().Format("2006-01-02T15:04:05.000Z"),
		getColoredAction(event.Action),
		event.Device,
		event.Session,
	}
	return columnize.SimpleFormat([]string{strings.Join(row, "|")})
}

func init() {
	tailCmd.Flags().Int("tail", 0, "Number of lines to show from the end of the journal")
	tailCmd.Flags().BoolP("follow", "f", false, "Follow journal output")
	tailCmd.Flags().Bool("remote", false, "Print the events recorded on the fleet platform instead of the local journal")
	rootCmd.AddCommand(tailCmd)
}
