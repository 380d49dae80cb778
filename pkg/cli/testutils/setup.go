/* Copyright 2025 Seeknote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package testutils provides fixtures for tests
package testutils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/seeknote/seeknote/pkg/cli/database"
	"github.com/seeknote/seeknote/pkg/cli/notes"
)

// MustSaveCollection writes the given notes as the collection of the user
func MustSaveCollection(t *testing.T, db *database.DB, userID string, ns []notes.Note) {
	b, err := json.Marshal(ns)
	if err != nil {
		t.Fatalf("marshalling collection: %v", err)
	}

	database.MustExec(t, "saving collection", db,
		"INSERT INTO note_collections (user_id, data) VALUES (?, ?) ON CONFLICT(user_id) DO UPDATE SET data = excluded.data",
		userID, string(b))
}

// MustGetCollection reads the collection of the user
func MustGetCollection(t *testing.T, db *database.DB, userID string) []notes.Note {
	var data string
	database.MustScan(t, "reading collection",
		db.QueryRow("SELECT data FROM note_collections WHERE user_id = ?", userID), &data)

	var ret []notes.Note
	if err := json.Unmarshal([]byte(data), &ret); err != nil {
		t.Fatalf("unmarshalling collection: %v", err)
	}

	return ret
}

// NewNote returns a note fixture
func NewNote(id, userID, videoID string, tSec float64, text string, op notes.Op, ts time.Time) notes.Note {
	return notes.Note{
		ID:        id,
		UserID:    userID,
		CourseID:  "course-1",
		VideoID:   videoID,
		TSec:      tSec,
		Text:      text,
		Op:        op,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}
