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
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roverkit/robolog/journal"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Export the journal to a JSON file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := fmt.Sprintf("robolog-export-%s.json", time.Now().Format("20060102"))
		if len(args) > 0 {
			filename = args[0]
		}

		j, err := openJournal()
		if err != nil {
			logger.Fatal(err)
		}
		defer j.Destroy()

		count, size, err := runExportCmd(j, filename)
		if err != nil {
			logger.Fatal(err)
		}

		fmt.Printf("Exported %d events (%s) to %s\n", count, humanize.Bytes(uint64(size)), filename)
	},
}

func runExportCmd(j journal.Journal, filename string) (int, int64, error) {
	result, err := j.RetrieveEvents(context.Background(), journal.EventFilter{}, 0, -1)
	if err != nil {
		return 0, 0, err
	}

	data, err := json.MarshalIndent(result.Events, "", "\t")
	if err != nil {
		return 0, 0, err
	}

	if err := os.WriteFile(filename, data, 0640); err != nil {
		return 0, 0, fmt.Errorf("unable to write export file %q: %w", filename, err)
	}

	return len(result.Events), int64(len(data)), nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
