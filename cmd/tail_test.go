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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roverkit/robolog/journal"
)

func TestFormatEvent(t *testing.T) {
	event := &journal.Event{
		ID:      1,
		Action:  "intervention",
		Code:    307,
		Device:  "Wireless Controller",
		Session: "session-20240612-081500",
		At:      time.Date(2024, 6, 12, 8, 15, 32, int(250*time.Millisecond), time.UTC),
	}

	output := formatEvent(event)
	assert.Contains(t, output, "2024-06-12T08:15:32.250Z")
	assert.Contains(t, output, "intervention")
	assert.Contains(t, output, "Wireless Controller")
	assert.Contains(t, output, "session-20240612-081500")
}

func TestGetColoredActionIsStable(t *testing.T) {
	first := getColoredAction("slow_down")
	second := getColoredAction("slow_down")
	assert.Equal(t, first, second)
}
