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
	"sync"
)

type memoryJournal struct {
	events    []*Event
	nextID    int64
	mutex     *sync.Mutex
	observers map[chan struct{}]struct{}
}

// CreateMemoryJournal creates an in-process journal, it backs the daemon's
// live event fan-out and is not persistent.
func CreateMemoryJournal() ObservableJournal {
	return &memoryJournal{
		events:    []*Event{},
		nextID:    1,
		mutex:     &sync.Mutex{},
		observers: make(map[chan struct{}]struct{}),
	}
}

// Destroy terminates the underlying storage
func (j *memoryJournal) Destroy() {
	// Nothing
}

func (j *memoryJournal) AddEvents(ctx context.Context, events []*Event) error {
	if err := ValidateEvents(events); err != nil {
		return err
	}

	j.mutex.Lock()
	defer j.mutex.Unlock()

	for _, event := range events {
		if event.ID == 0 {
			event.ID = j.nextID
		}
		if event.ID >= j.nextID {
			j.nextID = event.ID + 1
		}
		j.events = append(j.events, event)
	}

	// wake up pending observers
	for wakeup := range j.observers {
		close(wakeup)
		delete(j.observers, wakeup)
	}
	return nil
}

func (j *memoryJournal) RetrieveEvents(ctx context.Context, filter EventFilter, fromEventIdx int, count int) (EventsResult, error) {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	return Paginate(j.events, filter, fromEventIdx, count), nil
}

func (j *memoryJournal) RetrievePending(ctx context.Context, limit int) ([]*Event, error) {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	pending := []*Event{}
	for _, event := range j.events {
		if event.Uploaded {
			continue
		}
		pending = append(pending, event)
		if limit > 0 && len(pending) >= limit {
			break
		}
	}
	return pending, nil
}

func (j *memoryJournal) MarkUploaded(ctx context.Context, eventIDs []int64) error {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	byID := make(map[int64]*Event, len(j.events))
	for _, event := range j.events {
		byID[event.ID] = event
	}

	for _, eventID := range eventIDs {
		event, exists := byID[eventID]
		if !exists {
			return &UnknownEventError{ID: eventID}
		}
		event.Uploaded = true
	}
	return nil
}

// ObserveEvents delivers the matching events already journaled, then blocks
// waiting for new ones until the context is done.
func (j *memoryJournal) ObserveEvents(ctx context.Context, filter EventFilter, out chan<- *Event) error {
	nextIdx := 0
	for {
		j.mutex.Lock()
		for nextIdx < len(j.events) {
			event := j.events[nextIdx]
			nextIdx++
			if !filter.Matches(event) {
				continue
			}
			j.mutex.Unlock()
			select {
			case out <- event:
			case <-ctx.Done():
				return ctx.Err()
			}
			j.mutex.Lock()
		}

		wakeup := make(chan struct{})
		j.observers[wakeup] = struct{}{}
		j.mutex.Unlock()

		select {
		case <-wakeup:
		case <-ctx.Done():
			j.mutex.Lock()
			delete(j.observers, wakeup)
			j.mutex.Unlock()
			return ctx.Err()
		}
	}
}
