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

package api

type Robot struct {
	Id         string  `json:"id,omitempty"`
	Name       string  `json:"name"`
	CreatedAt  float64 `json:"created_at,omitempty"`
	LastSeenAt float64 `json:"last_seen_at,omitempty"`
}
