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

package uploader

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/roverkit/robolog/helper"
	"github.com/roverkit/robolog/journal"
)

const (
	DefaultInterval  = 30 * time.Second
	DefaultBatchSize = 100
)

var logger = helper.GetSugarLogger([]string{"uploader"})

// Worker periodically drains the journal's pending events to the platform.
type Worker struct {
	Client    *resty.Client
	Journal   journal.Journal
	RobotID   string
	Interval  time.Duration
	BatchSize int
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return DefaultInterval
	}
	return w.Interval
}

func (w *Worker) batchSize() int {
	if w.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return w.BatchSize
}

// Run drains pending events on every tick until the context is done.
// Failed batches are left pending and retried on the next tick.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.Drain(ctx); err != nil {
				logger.Warnw("upload failed, events left pending", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Drain pushes every pending event batch by batch and marks them uploaded.
// It returns the first error encountered, leaving the failed batch pending.
func (w *Worker) Drain(ctx context.Context) error {
	for {
		events, err := w.Journal.RetrievePending(ctx, w.batchSize())
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}

		if err := PushEvents(w.Client, w.RobotID, events); err != nil {
			return err
		}

		eventIDs := make([]int64, 0, len(events))
		for _, event := range events {
			eventIDs = append(eventIDs, event.ID)
		}
		if err := w.Journal.MarkUploaded(ctx, eventIDs); err != nil {
			return err
		}
		logger.Debugw("events uploaded", "count", len(events))

		if len(events) < w.batchSize() {
			return nil
		}
	}
}
