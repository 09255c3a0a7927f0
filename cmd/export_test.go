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
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roverkit/robolog/journal"
	journal_test "github.com/roverkit/robolog/journal/test"
)

func TestRunExportCmd(t *testing.T) {
	j := journal.CreateMemoryJournal()
	defer j.Destroy()

	events := journal_test.GenerateEvents(12)
	require.NoError(t, j.AddEvents(context.Background(), events))

	filename := path.Join(t.TempDir(), "export.json")
	count, size, err := runExportCmd(j, filename)
	require.NoError(t, err)
	assert.Equal(t, 12, count)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), size)

	var exported []journal.Event
	require.NoError(t, json.Unmarshal(data, &exported))
	require.Len(t, exported, 12)
	assert.Equal(t, events[0].Action, exported[0].Action)
}

func TestRunExportCmdBadPath(t *testing.T) {
	j := journal.CreateMemoryJournal()
	defer j.Destroy()

	_, _, err := runExportCmd(j, path.Join(t.TempDir(), "no-such-dir", "export.json"))
	assert.Error(t, err)
}
