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

package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roverkit/robolog/journal"
	"github.com/roverkit/robolog/journal/test"
)

func TestSuiteMemoryJournal(t *testing.T) {
	test.RunSuite(t, func() journal.Journal {
		return journal.CreateMemoryJournal()
	})
}

func TestObserveEventsDeliversBacklogThenLiveEvents(t *testing.T) {
	j := journal.CreateMemoryJournal()
	defer j.Destroy()

	backlog := test.GenerateEvents(3)
	require.NoError(t, j.AddEvents(context.Background(), backlog))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan *journal.Event)
	errs := make(chan error, 1)
	go func() {
		errs <- j.ObserveEvents(ctx, journal.EventFilter{}, out)
	}()

	var received []*journal.Event
	for idx := 0; idx < 3; idx++ {
		received = append(received, <-out)
	}
	assert.Equal(t, backlog[0].ID, received[0].ID)

	live := test.GenerateEvents(1)
	require.NoError(t, j.AddEvents(context.Background(), live))

	select {
	case event := <-out:
		assert.Equal(t, live[0].ID, event.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("live event was not delivered")
	}

	cancel()
	assert.Equal(t, context.Canceled, <-errs)
}

func TestObserveEventsAppliesFilter(t *testing.T) {
	j := journal.CreateMemoryJournal()
	defer j.Destroy()

	require.NoError(t, j.AddEvents(context.Background(), []*journal.Event{
		{Action: "intersection", Code: 304, At: time.Now()},
		{Action: "intervention", Code: 307, At: time.Now()},
		{Action: "intersection", Code: 304, At: time.Now()},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan *journal.Event)
	go func() {
		_ = j.ObserveEvents(ctx, journal.EventFilter{Actions: []string{"intervention"}}, out)
	}()

	event := <-out
	assert.Equal(t, "intervention", event.Action)

	select {
	case unexpected := <-out:
		t.Fatalf("unexpected event delivered: %v", unexpected)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestObserveEventsFiltersBySession(t *testing.T) {
	j := journal.CreateMemoryJournal()
	defer j.Destroy()

	require.NoError(t, j.AddEvents(context.Background(), []*journal.Event{
		{Action: "intervention", Code: 307, Session: "session-previous", At: time.Now()},
		{Action: "intervention", Code: 307, Session: "session-current", At: time.Now()},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan *journal.Event)
	go func() {
		_ = j.ObserveEvents(ctx, journal.EventFilter{Session: "session-current"}, out)
	}()

	event := <-out
	assert.Equal(t, "session-current", event.Session)

	select {
	case unexpected := <-out:
		t.Fatalf("unexpected event delivered: %v", unexpected)
	case <-time.After(100 * time.Millisecond):
	}
}
