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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/roverkit/robolog/camera"
	"github.com/roverkit/robolog/helper"
	"github.com/roverkit/robolog/input"
	"github.com/roverkit/robolog/journal"
	"github.com/roverkit/robolog/journal/hybrid"
	"github.com/roverkit/robolog/mapping"
	"github.com/roverkit/robolog/uploader"
)

var logger = helper.GetSugarLogger([]string{"cmd"})

// keyReader abstracts the evdev device for the daemon loop.
type keyReader interface {
	Name() string
	ReadKeys(ctx context.Context, out chan<- input.KeyEvent) error
}

type runCmdContext struct {
	reader          keyReader
	mapping         mapping.Mapping
	journal         journal.ObservableJournal
	client          *resty.Client
	capturer        *camera.Capturer
	snapshotActions []string
	robotID         string
	session         string
	uploadInterval  time.Duration
	uploadBatchSize int
}

// runCmd represents the run command, the container entry point on the robots
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Monitor the controller and log robot actions",
	Run: func(cmd *cobra.Command, args []string) {
		c, cleanup, err := newRunCmdContext()
		if err != nil {
			logger.Fatal(err)
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runRunCmd(ctx, c); err != nil {
			logger.Fatal(err)
		}
		fmt.Println("Exiting robot action logger.")
	},
}

func newRunCmdContext() (*runCmdContext, func(), error) {
	devicePath := viper.GetString("device")
	if devicePath == "" {
		devicePath = input.DefaultDevicePath
	}
	device, err := input.OpenDevice(devicePath)
	if err != nil {
		return nil, nil, err
	}

	actionMapping, err := mapping.Load(viper.GetString("mapping_file"))
	if err != nil {
		device.Close()
		return nil, nil, err
	}

	archive, err := openJournal()
	if err != nil {
		device.Close()
		return nil, nil, err
	}

	hybridJournal, err := hybrid.CreateJournal(journal.CreateMemoryJournal(), archive)
	if err != nil {
		device.Close()
		archive.Destroy()
		return nil, nil, err
	}

	c := &runCmdContext{
		reader:          device,
		mapping:         actionMapping,
		journal:         hybridJournal,
		robotID:         viper.GetString("robot"),
		session:         fmt.Sprintf("session-%s", time.Now().Format("20060102-150405")),
		uploadInterval:  viper.GetDuration("upload.interval"),
		uploadBatchSize: viper.GetInt("upload.batch_size"),
	}

	// Upload is enabled as soon as a remote is configured.
	if helper.CurrentConfig("url") != "" {
		client, err := uploader.PlatformClient(Verbose)
		if err == nil {
			c.client = client
		}
	}

	if snapshotDir := viper.GetString("snapshot.dir"); snapshotDir != "" {
		c.capturer = &camera.Capturer{
			Binary:    viper.GetString("snapshot.binary"),
			OutputDir: snapshotDir,
		}
		c.snapshotActions = viper.GetStringSlice("snapshot.actions")
		if len(c.snapshotActions) == 0 {
			c.snapshotActions = []string{"intervention"}
		}
	}

	cleanup := func() {
		device.Close()
		hybridJournal.Destroy()
	}
	return c, cleanup, nil
}

func ignoreCancellation(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runRunCmd(ctx context.Context, c *runCmdContext) error {
	fmt.Printf("Monitoring controller %q for robot actions.\n", c.reader.Name())

	g, ctx := errgroup.WithContext(ctx)
	keys := make(chan input.KeyEvent)

	g.Go(func() error {
		return ignoreCancellation(c.reader.ReadKeys(ctx, keys))
	})

	g.Go(func() error {
		for {
			select {
			case key := <-keys:
				if !key.IsKeyDown() {
					continue
				}
				action, mapped := c.mapping.Resolve(key.Code)
				if !mapped {
					continue
				}
				event := &journal.Event{
					Action:  action,
					Code:    key.Code,
					Device:  c.reader.Name(),
					Session: c.session,
					At:      key.Time,
				}
				if err := c.journal.AddEvents(ctx, []*journal.Event{event}); err != nil {
					return err
				}
				logger.Infow("action logged", "action", action, "code", key.Code)
			case <-ctx.Done():
				return nil
			}
		}
	})

	if c.client != nil {
		worker := &uploader.Worker{
			Client:    c.client,
			Journal:   c.journal,
			RobotID:   c.robotID,
			Interval:  c.uploadInterval,
			BatchSize: c.uploadBatchSize,
		}
		g.Go(func() error {
			return ignoreCancellation(worker.Run(ctx))
		})
	}

	if c.capturer != nil {
		triggers := make(chan *journal.Event, 8)
		g.Go(func() error {
			// Restrict to the current session so events replayed from the
			// archive on startup don't re-trigger captures.
			filter := journal.EventFilter{Actions: c.snapshotActions, Session: c.session}
			return ignoreCancellation(c.journal.ObserveEvents(ctx, filter, triggers))
		})
		g.Go(func() error {
			for {
				select {
				case event := <-triggers:
					snapshot, err := c.capturer.Capture(ctx, event.Action)
					if err != nil {
						logger.Warnw("snapshot capture failed", "action", event.Action, "error", err)
						continue
					}
					logger.Infow("snapshot captured", "path", snapshot.Path)
					if c.client != nil {
						if err := uploader.PushSnapshot(c.client, c.robotID, snapshot); err != nil {
							logger.Warnw("snapshot upload failed", "error", err)
						}
					}
				case <-ctx.Done():
					return nil
				}
			}
		})
	}

	return g.Wait()
}

func init() {
	rootCmd.AddCommand(runCmd)
}
