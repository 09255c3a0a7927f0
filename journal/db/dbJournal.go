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

package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/roverkit/robolog/journal"
)

type dbEvent struct {
	ID       int64 `gorm:"primarykey;autoIncrement"`
	Action   string
	Code     uint16
	Device   string
	Session  string
	At       time.Time
	Uploaded bool
}

type dbJournal struct {
	db *gorm.DB
}

func journalEventFromDB(event dbEvent) *journal.Event {
	return &journal.Event{
		ID:       event.ID,
		Action:   event.Action,
		Code:     event.Code,
		Device:   event.Device,
		Session:  event.Session,
		At:       event.At,
		Uploaded: event.Uploaded,
	}
}

func dbEventFromJournal(event *journal.Event) dbEvent {
	return dbEvent{
		ID:       event.ID,
		Action:   event.Action,
		Code:     event.Code,
		Device:   event.Device,
		Session:  event.Session,
		At:       event.At,
		Uploaded: event.Uploaded,
	}
}

// CreateJournal creates a journal storing events in a SQLite database
func CreateJournal(filename string) (journal.Journal, error) {
	newLogger := logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		Colorful:                  true,
		IgnoreRecordNotFoundError: true,
	})

	// Setting cache=shared following the guidelines from https://github.com/mattn/go-sqlite3#faq
	db, err := gorm.Open(sqlite.Open(filename+"?cache=shared"), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, fmt.Errorf("error while connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unexpected error while accessing the low level SQL DB driver: %w", err)
	}
	sqlDB.SetMaxOpenConns(1) // Following the guidelines from https://github.com/mattn/go-sqlite3#faq

	if err := db.AutoMigrate(&dbEvent{}); err != nil {
		return nil, fmt.Errorf("error during database migration: %w", err)
	}

	return &dbJournal{db: db}, nil
}

// Destroy terminates the underlying storage
func (j *dbJournal) Destroy() {
	if sqlDB, err := j.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (j *dbJournal) AddEvents(ctx context.Context, events []*journal.Event) error {
	if err := journal.ValidateEvents(events); err != nil {
		return err
	}

	tx := j.db.WithContext(ctx).Begin()
	for _, event := range events {
		record := dbEventFromJournal(event)
		if err := tx.Create(&record).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("unable to store event: %w", err)
		}
		event.ID = record.ID
	}
	return tx.Commit().Error
}

func (j *dbJournal) RetrieveEvents(ctx context.Context, filter journal.EventFilter, fromEventIdx int, count int) (journal.EventsResult, error) {
	records := []dbEvent{}
	if err := j.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return journal.EventsResult{}, err
	}

	events := make([]*journal.Event, 0, len(records))
	for _, record := range records {
		events = append(events, journalEventFromDB(record))
	}
	return journal.Paginate(events, filter, fromEventIdx, count), nil
}

func (j *dbJournal) RetrievePending(ctx context.Context, limit int) ([]*journal.Event, error) {
	query := j.db.WithContext(ctx).Where("uploaded = ?", false).Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	records := []dbEvent{}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	pending := make([]*journal.Event, 0, len(records))
	for _, record := range records {
		pending = append(pending, journalEventFromDB(record))
	}
	return pending, nil
}

func (j *dbJournal) MarkUploaded(ctx context.Context, eventIDs []int64) error {
	tx := j.db.WithContext(ctx).Begin()
	for _, eventID := range eventIDs {
		update := tx.Model(&dbEvent{}).Where("id = ?", eventID).Update("uploaded", true)
		if update.Error != nil {
			tx.Rollback()
			return update.Error
		}
		if update.RowsAffected == 0 {
			tx.Rollback()
			return &journal.UnknownEventError{ID: eventID}
		}
	}
	return tx.Commit().Error
}
