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
	"context"
	"os"
	"path"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCaptureBinary writes a placeholder jpeg to the path following the -o
// flag, mimicking libcamera-still's contract.
func fakeCaptureBinary(t *testing.T) string {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	script := []byte(`#!/bin/sh
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then
    printf 'fake jpeg data' > "$2"
    exit 0
  fi
  shift
done
echo "no output file given" >&2
exit 1
`)

	filename := path.Join(t.TempDir(), "fake-libcamera-still")
	require.NoError(t, os.WriteFile(filename, script, 0700))
	return filename
}

func TestCapture(t *testing.T) {
	outputDir := t.TempDir()
	capturer := &Capturer{
		Binary:    fakeCaptureBinary(t),
		OutputDir: outputDir,
	}

	snapshot, err := capturer.Capture(context.Background(), "intervention")
	require.NoError(t, err)

	assert.Equal(t, "intervention", snapshot.Action)
	assert.Equal(t, int64(len("fake jpeg data")), snapshot.Size)
	assert.NotZero(t, snapshot.TakenAt)
	assert.FileExists(t, snapshot.Path)
	assert.Contains(t, path.Base(snapshot.Path), "intervention-")
}

func TestCaptureBinaryFailure(t *testing.T) {
	capturer := &Capturer{
		Binary:    "false",
		OutputDir: t.TempDir(),
	}

	_, err := capturer.Capture(context.Background(), "intervention")
	assert.ErrorContains(t, err, "failed")
}

func TestCaptureMissingBinary(t *testing.T) {
	capturer := &Capturer{
		Binary:    path.Join(t.TempDir(), "nope"),
		OutputDir: t.TempDir(),
	}

	_, err := capturer.Capture(context.Background(), "intervention")
	assert.Error(t, err)
}
