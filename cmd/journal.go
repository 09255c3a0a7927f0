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
	"fmt"
	"path"

	"github.com/spf13/viper"

	"github.com/roverkit/robolog/journal"
	"github.com/roverkit/robolog/journal/db"
	"github.com/roverkit/robolog/journal/fs"
)

func journalRootDirname() string {
	rootDirname := viper.GetString("journal.dir")
	if rootDirname == "" {
		rootDirname = fs.DefaultRootDirname
	}
	return rootDirname
}

// openJournal opens the persistent journal selected by the config.
func openJournal() (journal.Journal, error) {
	backendName := viper.GetString("journal.backend")
	switch backendName {
	case "", "fs":
		return fs.CreateJournal(journalRootDirname())
	case "sqlite":
		filename := viper.GetString("journal.sqlite_path")
		if filename == "" {
			filename = path.Join(journalRootDirname(), "journal.db")
		}
		return db.CreateJournal(filename)
	default:
		return nil, fmt.Errorf("unknown journal backend %q (expected \"fs\" or \"sqlite\")", backendName)
	}
}
