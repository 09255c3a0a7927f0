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

package hybrid

import (
	"context"
	"fmt"

	"github.com/roverkit/robolog/journal"
)

type hybridJournal struct {
	transient journal.ObservableJournal
	archive   journal.Journal
}

// CreateJournal creates a journal keeping every event in a transient
// observable journal for live followers while persisting to an archive
// journal. The transient side is seeded from the archive on creation.
func CreateJournal(transient journal.ObservableJournal, archive journal.Journal) (journal.ObservableJournal, error) {
	j := hybridJournal{
		transient: transient,
		archive:   archive,
	}

	if err := j.sync(); err != nil {
		return nil, err
	}
	return &j, nil
}

// Destroy terminates the underlying storage
func (j *hybridJournal) Destroy() {
	j.transient.Destroy()
	j.archive.Destroy()
}

func (j *hybridJournal) sync() error {
	// Import everything from the archive into the transient journal,
	// preserving event IDs.
	result, err := j.archive.RetrieveEvents(context.Background(), journal.EventFilter{}, 0, -1)
	if err != nil {
		return fmt.Errorf("error while syncing events from archive to transient: %w", err)
	}
	if len(result.Events) == 0 {
		return nil
	}
	if err := j.transient.AddEvents(context.Background(), result.Events); err != nil {
		return fmt.Errorf("error while syncing events from archive to transient: %w", err)
	}
	return nil
}

func (j *hybridJournal) AddEvents(ctx context.Context, events []*journal.Event) error {
	// The archive assigns the IDs, the transient side keeps them.
	if err := j.archive.AddEvents(ctx, events); err != nil {
		return err
	}
	return j.transient.AddEvents(ctx, events)
}

func (j *hybridJournal) RetrieveEvents(ctx context.Context, filter journal.EventFilter, fromEventIdx int, count int) (journal.EventsResult, error) {
	return j.archive.RetrieveEvents(ctx, filter, fromEventIdx, count)
}

func (j *hybridJournal) RetrievePending(ctx context.Context, limit int) ([]*journal.Event, error) {
	return j.archive.RetrievePending(ctx, limit)
}

func (j *hybridJournal) MarkUploaded(ctx context.Context, eventIDs []int64) error {
	if err := j.archive.MarkUploaded(ctx, eventIDs); err != nil {
		return err
	}
	return j.transient.MarkUploaded(ctx, eventIDs)
}

func (j *hybridJournal) ObserveEvents(ctx context.Context, filter journal.EventFilter, out chan<- *journal.Event) error {
	return j.transient.ObserveEvents(ctx, filter, out)
}
