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
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jinzhu/copier"

	"github.com/roverkit/robolog/api"
	"github.com/roverkit/robolog/journal"
)

// RobotNotFoundError is raised when the platform doesn't know the robot
type RobotNotFoundError struct {
	RobotID string
}

func (e *RobotNotFoundError) Error() string {
	return fmt.Sprintf("robot %q not found on the platform, maybe try `robolog configure remote`", e.RobotID)
}

// GetRobot retrieves the robot registration from the platform.
func GetRobot(client *resty.Client, robotID string) (*api.Robot, error) {
	resp, err := client.R().
		SetResult(&api.Robot{}).
		Get(fmt.Sprintf("/robots/%s", robotID))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, &RobotNotFoundError{RobotID: robotID}
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %d retrieving robot: %s", resp.StatusCode(), resp.String())
	}
	return resp.Result().(*api.Robot), nil
}

// SearchEvents retrieves one page of the robot's events recorded on the
// platform, optionally restricted to a set of action labels.
func SearchEvents(client *resty.Client, robotID string, actions []string, page int) (*api.SearchEventsResult, error) {
	request := client.R().
		SetResult(&api.SearchEventsResult{}).
		SetQueryParam("page", strconv.Itoa(page))
	if len(actions) > 0 {
		request.SetQueryParamsFromValues(url.Values{"action": actions})
	}

	resp, err := request.Get(fmt.Sprintf("/robots/%s/events", robotID))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, &RobotNotFoundError{RobotID: robotID}
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %d searching events: %s", resp.StatusCode(), resp.String())
	}
	return resp.Result().(*api.SearchEventsResult), nil
}

func eventsPayload(events []*journal.Event) ([]*api.ActionEvent, error) {
	payload := make([]*api.ActionEvent, 0, len(events))
	for _, event := range events {
		dto := &api.ActionEvent{}
		if err := copier.Copy(dto, event); err != nil {
			return nil, fmt.Errorf("unable to build event payload: %w", err)
		}
		dto.SessionID = event.Session
		dto.Timestamp = float64(event.At.UnixNano()) / float64(time.Second)
		payload = append(payload, dto)
	}
	return payload, nil
}

// PushEvents uploads a batch of journal events to the platform.
func PushEvents(client *resty.Client, robotID string, events []*journal.Event) error {
	if len(events) == 0 {
		return nil
	}

	payload, err := eventsPayload(events)
	if err != nil {
		return err
	}

	resp, err := client.R().
		SetBody(map[string]interface{}{"events": payload}).
		Post(fmt.Sprintf("/robots/%s/events", robotID))
	if err != nil {
		return err
	}

	if resp.StatusCode() == http.StatusNotFound {
		return &RobotNotFoundError{RobotID: robotID}
	}
	if resp.IsError() {
		return fmt.Errorf("unexpected status %d pushing events: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// PushSnapshot uploads a captured camera frame to the platform.
func PushSnapshot(client *resty.Client, robotID string, snapshot *api.Snapshot) error {
	resp, err := client.R().
		SetFile("image", snapshot.Path).
		SetFormData(map[string]string{
			"action":   snapshot.Action,
			"taken_at": strconv.FormatFloat(snapshot.TakenAt, 'f', -1, 64),
		}).
		Post(fmt.Sprintf("/robots/%s/snapshots", robotID))
	if err != nil {
		return err
	}

	if resp.StatusCode() == http.StatusNotFound {
		return &RobotNotFoundError{RobotID: robotID}
	}
	if resp.IsError() {
		return fmt.Errorf("unexpected status %d pushing snapshot: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
