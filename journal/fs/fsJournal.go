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

package fs

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/roverkit/robolog/journal"
)

// DefaultRootDirname matches the directory the robot images provision for
// the logger.
const DefaultRootDirname = "/var/log/robot_logger"

const stateFilename = "journal.yaml"

var eventsFilenameRegexp = regexp.MustCompile(`^events-[0-9]{8}\.jsonl$`)

type journalState struct {
	NextID          int64   `yaml:"next_id"`
	UploadedThrough int64   `yaml:"uploaded_through"`
	UploadedExtra   []int64 `yaml:"uploaded_extra,omitempty"`
}

type fsJournal struct {
	rootDirname string
	mutex       *sync.Mutex
	state       journalState
}

// CreateJournal creates a journal persisting events as append-only JSON
// lines day files under rootDirname
func CreateJournal(rootDirname string) (journal.Journal, error) {
	rootDirentry, err := os.Stat(rootDirname)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("unable to create filesystem journal: %q doesn't exist", rootDirname)
	}
	if err != nil {
		return nil, err
	}
	if !rootDirentry.IsDir() {
		return nil, fmt.Errorf("unable to create filesystem journal: %q is not a directory", rootDirname)
	}

	j := &fsJournal{
		rootDirname: rootDirname,
		mutex:       &sync.Mutex{},
		state:       journalState{NextID: 1},
	}
	if err := j.loadState(); err != nil {
		return nil, err
	}
	return j, nil
}

// Destroy terminates the underlying storage
func (j *fsJournal) Destroy() {
	// Nothing
}

func (j *fsJournal) loadState() error {
	stateData, err := os.ReadFile(path.Join(j.rootDirname, stateFilename))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("unable to read journal state: %w", err)
	}
	if err := yaml.Unmarshal(stateData, &j.state); err != nil {
		return fmt.Errorf("unable to deserialize journal state: %w", err)
	}
	if j.state.NextID < 1 {
		j.state.NextID = 1
	}
	return nil
}

func (j *fsJournal) saveState() error {
	stateData, err := yaml.Marshal(&j.state)
	if err != nil {
		return fmt.Errorf("unable to serialize journal state: %w", err)
	}
	if err := os.WriteFile(path.Join(j.rootDirname, stateFilename), stateData, 0640); err != nil {
		return fmt.Errorf("unable to write journal state: %w", err)
	}
	return nil
}

func (j *fsJournal) AddEvents(ctx context.Context, events []*journal.Event) error {
	if err := journal.ValidateEvents(events); err != nil {
		return err
	}

	j.mutex.Lock()
	defer j.mutex.Unlock()

	dayFiles := make(map[string]*os.File)
	defer func() {
		for _, dayFile := range dayFiles {
			dayFile.Close()
		}
	}()

	for _, event := range events {
		if event.ID == 0 {
			event.ID = j.state.NextID
		}
		if event.ID >= j.state.NextID {
			j.state.NextID = event.ID + 1
		}

		filename := fmt.Sprintf("events-%s.jsonl", event.At.Format("20060102"))
		dayFile, opened := dayFiles[filename]
		if !opened {
			var err error
			dayFile, err = os.OpenFile(path.Join(j.rootDirname, filename), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
			if err != nil {
				return fmt.Errorf("unable to open journal day file %q: %w", filename, err)
			}
			dayFiles[filename] = dayFile
		}

		line, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("unable to serialize event %d: %w", event.ID, err)
		}
		if _, err := dayFile.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("unable to append to journal day file %q: %w", filename, err)
		}
	}

	return j.saveState()
}

func (j *fsJournal) isUploaded(eventID int64) bool {
	if eventID <= j.state.UploadedThrough {
		return true
	}
	for _, extraID := range j.state.UploadedExtra {
		if extraID == eventID {
			return true
		}
	}
	return false
}

func (j *fsJournal) readAllEvents() ([]*journal.Event, error) {
	rootDirContent, err := os.ReadDir(j.rootDirname)
	if err != nil {
		return nil, fmt.Errorf("unable to list journal directory: %w", err)
	}

	var filenames []string
	for _, entry := range rootDirContent {
		if !entry.IsDir() && eventsFilenameRegexp.MatchString(entry.Name()) {
			filenames = append(filenames, entry.Name())
		}
	}
	sort.Strings(filenames)

	events := []*journal.Event{}
	for _, filename := range filenames {
		dayFile, err := os.Open(path.Join(j.rootDirname, filename))
		if err != nil {
			return nil, fmt.Errorf("unable to open journal day file %q: %w", filename, err)
		}

		scanner := bufio.NewScanner(dayFile)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			event := &journal.Event{}
			if err := json.Unmarshal(line, event); err != nil {
				dayFile.Close()
				return nil, fmt.Errorf("corrupted journal day file %q: %w", filename, err)
			}
			event.Uploaded = j.isUploaded(event.ID)
			events = append(events, event)
		}
		if err := scanner.Err(); err != nil {
			dayFile.Close()
			return nil, fmt.Errorf("unable to read journal day file %q: %w", filename, err)
		}
		dayFile.Close()
	}
	return events, nil
}

func (j *fsJournal) RetrieveEvents(ctx context.Context, filter journal.EventFilter, fromEventIdx int, count int) (journal.EventsResult, error) {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	events, err := j.readAllEvents()
	if err != nil {
		return journal.EventsResult{}, err
	}
	return journal.Paginate(events, filter, fromEventIdx, count), nil
}

func (j *fsJournal) RetrievePending(ctx context.Context, limit int) ([]*journal.Event, error) {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	events, err := j.readAllEvents()
	if err != nil {
		return nil, err
	}

	pending := []*journal.Event{}
	for _, event := range events {
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

func (j *fsJournal) MarkUploaded(ctx context.Context, eventIDs []int64) error {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	for _, eventID := range eventIDs {
		if eventID < 1 || eventID >= j.state.NextID {
			return &journal.UnknownEventError{ID: eventID}
		}
		if !j.isUploaded(eventID) {
			j.state.UploadedExtra = append(j.state.UploadedExtra, eventID)
		}
	}
	j.compactUploaded()

	return j.saveState()
}

// compactUploaded folds contiguous extra IDs into the high water mark
func (j *fsJournal) compactUploaded() {
	sort.Slice(j.state.UploadedExtra, func(i, k int) bool {
		return j.state.UploadedExtra[i] < j.state.UploadedExtra[k]
	})

	remaining := j.state.UploadedExtra[:0]
	for _, extraID := range j.state.UploadedExtra {
		switch {
		case extraID <= j.state.UploadedThrough:
			// already covered
		case extraID == j.state.UploadedThrough+1:
			j.state.UploadedThrough = extraID
		default:
			remaining = append(remaining, extraID)
		}
	}
	j.state.UploadedExtra = remaining
	if len(j.state.UploadedExtra) == 0 {
		j.state.UploadedExtra = nil
	}
}
