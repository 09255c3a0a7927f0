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

package camera

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path"
	"strings"
	"time"

	"github.com/roverkit/robolog/api"
)

const (
	// DefaultBinary is the libcamera still capture tool shipped with
	// libcamera-tools on the robot images.
	DefaultBinary  = "libcamera-still"
	DefaultTimeout = 10 * time.Second
)

// Capturer takes still frames through the libcamera command line tools.
type Capturer struct {
	Binary    string
	ExtraArgs []string
	OutputDir string
	Timeout   time.Duration
}

// Capture grabs one frame and writes it as <action>-<timestamp>.jpg under
// the output directory.
func (c *Capturer) Capture(ctx context.Context, action string) (*api.Snapshot, error) {
	binary := c.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	takenAt := time.Now()
	filename := path.Join(c.OutputDir, fmt.Sprintf("%s-%s.jpg", action, takenAt.Format("20060102-150405.000")))

	args := []string{"--nopreview", "-o", filename}
	args = append(args, c.ExtraArgs...)

	captureCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stderr bytes.Buffer
	captureCmd := exec.CommandContext(captureCtx, binary, args...)
	captureCmd.Stderr = &stderr

	if err := captureCmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", binary, err, detail)
		}
		return nil, fmt.Errorf("%s failed: %w", binary, err)
	}

	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("%s reported success but produced no file: %w", binary, err)
	}

	return &api.Snapshot{
		Action:  action,
		Path:    filename,
		Size:    info.Size(),
		TakenAt: float64(takenAt.UnixNano()) / float64(time.Second),
	}, nil
}
