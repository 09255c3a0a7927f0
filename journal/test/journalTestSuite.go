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

package test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roverkit/robolog/journal"
)

var suiteEpoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// GenerateEvents builds a deterministic batch of unjournaled events.
func GenerateEvents(count int) []*journal.Event {
	actions := []string{"intersection", "lane_departure", "intervention", "slow_down", "other"}
	events := make([]*journal.Event, 0, count)
	for idx := 0; idx < count; idx++ {
		events = append(events, &journal.Event{
			Action:  actions[idx%len(actions)],
			Code:    uint16(304 + idx%len(actions)),
			Device:  "Xbox Wireless Controller",
			Session: "session-test",
			At:      suiteEpoch.Add(time.Duration(idx) * time.Second),
		})
	}
	return events
}

// RunSuite runs the full journal conformance suite
func RunSuite(t *testing.T, createJournal func() journal.Journal) {
	cases := []struct {
		name string
		test func(t *testing.T)
	}{
		{
			name: "TestCreateAndDestroyJournal",
			test: func(t *testing.T) {
				j := createJournal()
				assert.NotNil(t, j)
				j.Destroy()
			},
		},
		{
			name: "TestAddEventsAssignsIDs",
			test: func(t *testing.T) {
				j := createJournal()
				defer j.Destroy()

				events := GenerateEvents(3)
				err := j.AddEvents(context.Background(), events)
				require.NoError(t, err)

				seen := make(map[int64]struct{})
				for _, event := range events {
					assert.NotZero(t, event.ID)
					_, duplicate := seen[event.ID]
					assert.False(t, duplicate)
					seen[event.ID] = struct{}{}
				}
			},
		},
		{
			name: "TestAddEventsRejectsEmptyAction",
			test: func(t *testing.T) {
				j := createJournal()
				defer j.Destroy()

				err := j.AddEvents(context.Background(), []*journal.Event{{At: suiteEpoch}})
				expectedErr := &journal.InvalidEventError{}
				assert.ErrorAs(t, err, &expectedErr)
			},
		},
		{
			name: "TestRetrieveEvents",
			test: func(t *testing.T) {
				j := createJournal()
				defer j.Destroy()

				err := j.AddEvents(context.Background(), GenerateEvents(10))
				require.NoError(t, err)

				result, err := j.RetrieveEvents(context.Background(), journal.EventFilter{}, 0, -1)
				require.NoError(t, err)
				assert.Len(t, result.Events, 10)
				assert.Equal(t, 10, result.NextEventIdx)
			},
		},
		{
			name: "TestRetrieveEventsPagination",
			test: func(t *testing.T) {
				j := createJournal()
				defer j.Destroy()

				err := j.AddEvents(context.Background(), GenerateEvents(10))
				require.NoError(t, err)

				firstPage, err := j.RetrieveEvents(context.Background(), journal.EventFilter{}, 0, 4)
				require.NoError(t, err)
				require.Len(t, firstPage.Events, 4)

				secondPage, err := j.RetrieveEvents(context.Background(), journal.EventFilter{}, firstPage.NextEventIdx, 4)
				require.NoError(t, err)
				require.Len(t, secondPage.Events, 4)

				assert.NotEqual(t, firstPage.Events[3].ID, secondPage.Events[0].ID)
			},
		},
		{
			name: "TestRetrieveEventsFilterByAction",
			test: func(t *testing.T) {
				j := createJournal()
				defer j.Destroy()

				err := j.AddEvents(context.Background(), GenerateEvents(10))
				require.NoError(t, err)

				result, err := j.RetrieveEvents(context.Background(), journal.EventFilter{Actions: []string{"intervention"}}, 0, -1)
				require.NoError(t, err)
				require.Len(t, result.Events, 2)
				for _, event := range result.Events {
					assert.Equal(t, "intervention", event.Action)
				}
			},
		},
		{
			name: "TestRetrieveEventsFilterBySince",
			test: func(t *testing.T) {
				j := createJournal()
				defer j.Destroy()

				err := j.AddEvents(context.Background(), GenerateEvents(10))
				require.NoError(t, err)

				result, err := j.RetrieveEvents(context.Background(), journal.EventFilter{Since: suiteEpoch.Add(7 * time.Second)}, 0, -1)
				require.NoError(t, err)
				assert.Len(t, result.Events, 3)
			},
		},
		{
			name: "TestPendingAndMarkUploaded",
			test: func(t *testing.T) {
				j := createJournal()
				defer j.Destroy()

				events := GenerateEvents(5)
				err := j.AddEvents(context.Background(), events)
				require.NoError(t, err)

				pending, err := j.RetrievePending(context.Background(), -1)
				require.NoError(t, err)
				require.Len(t, pending, 5)

				err = j.MarkUploaded(context.Background(), []int64{pending[0].ID, pending[1].ID})
				require.NoError(t, err)

				pending, err = j.RetrievePending(context.Background(), -1)
				require.NoError(t, err)
				assert.Len(t, pending, 3)
			},
		},
		{
			name: "TestRetrievePendingLimit",
			test: func(t *testing.T) {
				j := createJournal()
				defer j.Destroy()

				err := j.AddEvents(context.Background(), GenerateEvents(5))
				require.NoError(t, err)

				pending, err := j.RetrievePending(context.Background(), 2)
				require.NoError(t, err)
				assert.Len(t, pending, 2)
			},
		},
		{
			name: "TestMarkUploadedUnknownEvent",
			test: func(t *testing.T) {
				j := createJournal()
				defer j.Destroy()

				err := j.AddEvents(context.Background(), GenerateEvents(2))
				require.NoError(t, err)

				err = j.MarkUploaded(context.Background(), []int64{4242})
				expectedErr := &journal.UnknownEventError{}
				require.ErrorAs(t, err, &expectedErr)
				assert.Equal(t, int64(4242), expectedErr.ID)
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, c.test)
	}
}
