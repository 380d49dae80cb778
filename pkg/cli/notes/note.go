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

// Package notes implements the local note store. Notes are annotations
// anchored to a playback position within a course video. They are kept
// in the local database and reconciled with the server in the
// background by the sync coordinator.
package notes

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Op is the pending operation to replay against the remote service.
// A note with OpNone is in sync with the server.
type Op int

const (
	// OpNone means the note has no unsynced changes
	OpNone Op = iota
	// OpCreate means the note was created locally and the server does not know it yet
	OpCreate
	// OpUpdate means the note was edited locally after it was last synced
	OpUpdate
	// OpDelete means the note is a tombstone awaiting deletion on the server
	OpDelete
)

var opNames = map[Op]string{
	OpCreate: "create",
	OpUpdate: "update",
	OpDelete: "delete",
}

// String returns the wire name of the operation
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}

	return "none"
}

// MarshalJSON implements json.Marshaler. OpNone is marshaled as an
// empty string but is normally omitted entirely via omitempty.
func (o Op) MarshalJSON() ([]byte, error) {
	if o == OpNone {
		return json.Marshal("")
	}

	return json.Marshal(o.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (o *Op) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "unmarshalling op")
	}

	switch s {
	case "create":
		*o = OpCreate
	case "update":
		*o = OpUpdate
	case "delete":
		*o = OpDelete
	case "", "none":
		*o = OpNone
	default:
		return errors.Errorf("unknown op %q", s)
	}

	return nil
}

// Note is a timestamped annotation attached to a position within a
// video of a course, owned by exactly one user.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CourseID  string    `json:"courseId"`
	VideoID   string    `json:"videoId"`
	TSec      float64   `json:"tSec"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAtUTC"`
	UpdatedAt time.Time `json:"updatedAtUTC"`
	Op        Op        `json:"op,omitempty"`
}

// Dirty reports whether the note has unsynced local changes. Dirtiness
// is derived from the op tag so that the two can never disagree.
func (n Note) Dirty() bool {
	return n.Op != OpNone
}

// NoteInput is the input for upserting a note. An empty ID means a new
// note is created.
type NoteInput struct {
	ID       string
	CourseID string
	VideoID  string
	TSec     float64
	Text     string
}
