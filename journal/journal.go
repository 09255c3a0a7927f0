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

package journal

import (
	"context"
	"fmt"
	"time"
)

// Event is one recorded operator action.
type Event struct {
	ID       int64     `json:"id"`
	Action   string    `json:"action"`
	Code     uint16    `json:"code"`
	Device   string    `json:"device"`
	Session  string    `json:"session"`
	At       time.Time `json:"at"`
	Uploaded bool      `json:"-"`
}

// EventFilter represents the arguments that can be passed to retrieve or
// observe journal events. Zero values select everything.
type EventFilter struct {
	Actions []string
	Device  string
	Session string
	Since   time.Time
	Until   time.Time
}

// Matches reports whether an event passes the filter.
func (f EventFilter) Matches(event *Event) bool {
	if len(f.Actions) > 0 {
		found := false
		for _, action := range f.Actions {
			if event.Action == action {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Device != "" && event.Device != f.Device {
		return false
	}
	if f.Session != "" && event.Session != f.Session {
		return false
	}
	if !f.Since.IsZero() && event.At.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && event.At.After(f.Until) {
		return false
	}
	return true
}

type EventsResult struct {
	Events       []*Event
	NextEventIdx int
}

// Journal defines the interface for an action event store.
//
// AddEvents assigns an ID to any event carrying a zero ID, events with a
// preassigned ID keep it.
type Journal interface {
	Destroy()

	AddEvents(ctx context.Context, events []*Event) error
	RetrieveEvents(ctx context.Context, filter EventFilter, fromEventIdx int, count int) (EventsResult, error)

	RetrievePending(ctx context.Context, limit int) ([]*Event, error)
	MarkUploaded(ctx context.Context, eventIDs []int64) error
}

// ObservableJournal is implemented by journals able to deliver events to
// live observers.
type ObservableJournal interface {
	Journal

	ObserveEvents(ctx context.Context, filter EventFilter, out chan<- *Event) error
}

// InvalidEventError is raised when trying to add a malformed event
type InvalidEventError struct {
	Reason string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid event: %s", e.Reason)
}

// UnknownEventError is raised when trying to operate on an unknown event
type UnknownEventError struct {
	ID int64
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("no event %d found", e.ID)
}

func ValidateEvents(events []*Event) error {
	for _, event := range events {
		if event.Action == "" {
			return &InvalidEventError{Reason: "empty action label"}
		}
		if event.At.IsZero() {
			return &InvalidEventError{Reason: "zero timestamp"}
		}
	}
	return nil
}

// Paginate applies a filter and the from/count pagination over an ID ordered
// event slice. It is shared by the journal implementations.
func Paginate(events []*Event, filter EventFilter, fromEventIdx int, count int) EventsResult {
	if fromEventIdx < 0 {
		fromEventIdx = 0
	}
	if count <= 0 {
		count = len(events)
	}

	result := EventsResult{
		Events:       []*Event{},
		NextEventIdx: fromEventIdx,
	}
	for idx := fromEventIdx; idx < len(events); idx++ {
		if filter.Matches(events[idx]) {
			result.Events = append(result.Events, events[idx])
		}
		result.NextEventIdx = idx + 1
		if len(result.Events) >= count {
			break
		}
	}
	return result
}
