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

package notes

import (
	"database/sql"
	"encoding/json"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/seeknote/seeknote/pkg/cli/database"
	"github.com/seeknote/seeknote/pkg/cli/log"
	"github.com/seeknote/seeknote/pkg/cli/utils"
	"github.com/seeknote/seeknote/pkg/clock"
)

// Store is the durable per-user note store. Each user's notes are kept
// as a single serialized collection in the note_collections table, so
// every mutation rewrites the whole collection.
type Store struct {
	db    *database.DB
	clock clock.Clock
}

// NewStore returns a note store backed by the given database
func NewStore(db *database.DB, c clock.Clock) *Store {
	return &Store{db: db, clock: c}
}

func trimText(text string) string {
	return strings.TrimSpace(text)
}

// getAll loads the full note collection for the user. Errors are
// propagated; callers on read-only paths degrade them to an empty list.
func (s *Store) getAll(userID string) ([]Note, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM note_collections WHERE user_id = ?", userID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading note collection")
	}

	var ret []Note
	if err := json.Unmarshal([]byte(data), &ret); err != nil {
		return nil, errors.Wrap(err, "unmarshalling note collection")
	}

	return ret, nil
}

// readAll is the read-path variant of getAll: a failure degrades to an
// empty list because a transient empty note list is less harmful than
// failing the caller.
func (s *Store) readAll(userID string) []Note {
	ret, err := s.getAll(userID)
	if err != nil {
		log.Debug("degrading note read to empty list: %v\n", err)
		return nil
	}

	return ret
}

// save rewrites the user's full note collection
func (s *Store) save(userID string, all []Note) error {
	if all == nil {
		all = []Note{}
	}

	data, err := json.Marshal(all)
	if err != nil {
		return errors.Wrap(err, "marshalling note collection")
	}

	_, err = s.db.Exec(`INSERT INTO note_collections (user_id, data) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET data = excluded.data`, userID, string(data))
	if err != nil {
		return errors.Wrap(err, "writing note collection")
	}

	return nil
}

func sortByTSec(ns []Note) {
	sort.SliceStable(ns, func(i, j int) bool {
		return ns[i].TSec < ns[j].TSec
	})
}

// ListByVideo returns the non-tombstoned notes for the given video,
// sorted by playback position
func (s *Store) ListByVideo(userID, courseID, videoID string) []Note {
	var ret []Note
	for _, n := range s.readAll(userID) {
		if n.CourseID == courseID && n.VideoID == videoID && n.Op != OpDelete {
			ret = append(ret, n)
		}
	}

	sortByTSec(ret)
	return ret
}

// ListByCourse returns the non-tombstoned notes for the given course,
// sorted by playback position across all of its videos
func (s *Store) ListByCourse(userID, courseID string) []Note {
	var ret []Note
	for _, n := range s.readAll(userID) {
		if n.CourseID == courseID && n.Op != OpDelete {
			ret = append(ret, n)
		}
	}

	sortByTSec(ret)
	return ret
}

// Upsert creates or updates a note. A missing input id creates a new
// note tagged OpCreate. An existing id merges the input fields into the
// note and tags it OpUpdate, unless the note is still unsynced
// (OpCreate), in which case the tag is preserved because the server has
// not seen the note yet.
func (s *Store) Upsert(userID string, input NoteInput) (Note, error) {
	if err := validateInput(userID, input); err != nil {
		return Note{}, err
	}

	all, err := s.getAll(userID)
	if err != nil {
		return Note{}, errors.Wrap(err, "loading notes")
	}

	now := s.clock.Now().UTC()

	if input.ID != "" {
		for i, n := range all {
			if n.ID != input.ID {
				continue
			}

			n.CourseID = input.CourseID
			n.VideoID = input.VideoID
			n.TSec = input.TSec
			n.Text = trimText(input.Text)
			n.UpdatedAt = now
			if n.Op != OpCreate {
				n.Op = OpUpdate
			}
			all[i] = n

			if err := s.save(userID, all); err != nil {
				return Note{}, errors.Wrap(err, "saving notes")
			}

			return n, nil
		}

		return Note{}, ErrNotFound
	}

	id, err := utils.GenerateUUID()
	if err != nil {
		return Note{}, errors.Wrap(err, "generating note id")
	}

	note := Note{
		ID:        id,
		UserID:    userID,
		CourseID:  input.CourseID,
		VideoID:   input.VideoID,
		TSec:      input.TSec,
		Text:      trimText(input.Text),
		CreatedAt: now,
		UpdatedAt: now,
		Op:        OpCreate,
	}
	all = append(all, note)

	if err := s.save(userID, all); err != nil {
		return Note{}, errors.Wrap(err, "saving notes")
	}

	return note, nil
}

// Get returns the note with the given id. Tombstoned notes are treated
// as not found.
func (s *Store) Get(userID, noteID string) (Note, error) {
	all, err := s.getAll(userID)
	if err != nil {
		return Note{}, errors.Wrap(err, "loading notes")
	}

	for _, n := range all {
		if n.ID == noteID && n.Op != OpDelete {
			return n, nil
		}
	}

	return Note{}, ErrNotFound
}

// Delete removes a note. A note that was never synced (OpCreate) is
// purged outright because the server never learned of it. Any other
// note becomes a tombstone retained until the deletion is acknowledged
// by the server. Deleting an unknown id is a noop.
func (s *Store) Delete(userID, noteID string) error {
	all, err := s.getAll(userID)
	if err != nil {
		return errors.Wrap(err, "loading notes")
	}

	for i, n := range all {
		if n.ID != noteID {
			continue
		}

		if n.Op == OpCreate {
			all = append(all[:i], all[i+1:]...)
		} else {
			n.UpdatedAt = s.clock.Now().UTC()
			n.Op = OpDelete
			all[i] = n
		}

		return errors.Wrap(s.save(userID, all), "saving notes")
	}

	return nil
}

// GetDirty returns all notes with unsynced changes, in storage order
func (s *Store) GetDirty(userID string) []Note {
	var ret []Note
	for _, n := range s.readAll(userID) {
		if n.Dirty() {
			ret = append(ret, n)
		}
	}

	return ret
}

// MarkSynced acknowledges that the given notes were replayed against
// the server. Tombstones are purged; other notes have their op tag
// cleared. Ids that are not present are skipped, so the operation is
// idempotent.
func (s *Store) MarkSynced(userID string, noteIDs []string) error {
	all, err := s.getAll(userID)
	if err != nil {
		return errors.Wrap(err, "loading notes")
	}

	changed := false
	for _, id := range noteIDs {
		for i, n := range all {
			if n.ID != id {
				continue
			}

			if n.Op == OpDelete {
				all = append(all[:i], all[i+1:]...)
			} else {
				n.Op = OpNone
				all[i] = n
			}
			changed = true
			break
		}
	}

	if !changed {
		return nil
	}

	return errors.Wrap(s.save(userID, all), "saving notes")
}

// MergeFromRemote folds the server's version of the collection into the
// local one. A remote note that is unknown locally is inserted. A known
// note is overwritten only when the local copy has no unsynced changes
// and the remote copy was updated strictly later; a dirty local note
// always wins until it has been pushed. Concurrent edits from two
// devices therefore resolve by last writer wins, and the losing edit is
// discarded without being surfaced.
func (s *Store) MergeFromRemote(userID string, remote []Note) error {
	all, err := s.getAll(userID)
	if err != nil {
		return errors.Wrap(err, "loading notes")
	}

	changed := false
	for _, rn := range remote {
		rn.Op = OpNone

		idx := -1
		for i, n := range all {
			if n.ID == rn.ID {
				idx = i
				break
			}
		}

		if idx == -1 {
			all = append(all, rn)
			changed = true
			continue
		}

		local := all[idx]
		if local.Dirty() {
			log.Debug("skipping remote note %s: local copy is dirty\n", rn.ID)
			continue
		}
		if rn.UpdatedAt.After(local.UpdatedAt) {
			all[idx] = rn
			changed = true
		}
	}

	if !changed {
		return nil
	}

	return errors.Wrap(s.save(userID, all), "saving notes")
}

// ClearAll removes the user's entire local note collection
func (s *Store) ClearAll(userID string) error {
	if _, err := s.db.Exec("DELETE FROM note_collections WHERE user_id = ?", userID); err != nil {
		return errors.Wrap(err, "deleting note collection")
	}

	return nil
}
