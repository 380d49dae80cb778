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

package notes_test

import (
	"testing"
	"time"

	"github.com/seeknote/seeknote/pkg/assert"
	"github.com/seeknote/seeknote/pkg/cli/database"
	"github.com/seeknote/seeknote/pkg/cli/notes"
	"github.com/seeknote/seeknote/pkg/cli/testutils"
	"github.com/seeknote/seeknote/pkg/clock"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*notes.Store, *database.DB, *clock.Mock) {
	db := database.InitTestMemoryDB(t)
	c := clock.NewMock()
	c.SetNow(t0)

	return notes.NewStore(db, c), db, c
}

func TestUpsertCreate(t *testing.T) {
	store, db, _ := newTestStore(t)

	n, err := store.Upsert("user-1", notes.NoteInput{
		CourseID: "course-1",
		VideoID:  "video-1",
		TSec:     92,
		Text:     "  maps are not safe for concurrent use  ",
	})
	if err != nil {
		t.Fatalf("upserting note: %v", err)
	}

	assert.NotEqual(t, n.ID, "", "note id should be generated")
	assert.Equal(t, n.Op, notes.OpCreate, "op mismatch")
	assert.Equal(t, n.Text, "maps are not safe for concurrent use", "text should be trimmed")
	assert.Equal(t, n.CreatedAt, t0, "created at mismatch")
	assert.Equal(t, n.UpdatedAt, t0, "updated at mismatch")

	got := testutils.MustGetCollection(t, db, "user-1")
	assert.Equal(t, len(got), 1, "collection length mismatch")
	assert.DeepEqual(t, got[0], n, "persisted note mismatch")
}

func TestUpsertEditUnsyncedKeepsCreate(t *testing.T) {
	store, _, c := newTestStore(t)

	n, err := store.Upsert("user-1", notes.NoteInput{
		CourseID: "course-1",
		VideoID:  "video-1",
		TSec:     10,
		Text:     "first",
	})
	if err != nil {
		t.Fatalf("creating note: %v", err)
	}

	c.Advance(time.Minute)

	edited, err := store.Upsert("user-1", notes.NoteInput{
		ID:       n.ID,
		CourseID: n.CourseID,
		VideoID:  n.VideoID,
		TSec:     n.TSec,
		Text:     "second",
	})
	if err != nil {
		t.Fatalf("editing note: %v", err)
	}

	assert.Equal(t, edited.Op, notes.OpCreate, "an unsynced note should stay tagged as a create")
	assert.Equal(t, edited.Text, "second", "text mismatch")
	assert.Equal(t, edited.UpdatedAt, t0.Add(time.Minute), "updated at mismatch")
	assert.Equal(t, edited.CreatedAt, t0, "created at should not move")
}

func TestUpsertEditSyncedTagsUpdate(t *testing.T) {
	store, db, c := newTestStore(t)

	testutils.MustSaveCollection(t, db, "user-1", []notes.Note{
		testutils.NewNote("n1", "user-1", "video-1", 10, "first", notes.OpNone, t0),
	})

	c.Advance(time.Minute)

	edited, err := store.Upsert("user-1", notes.NoteInput{
		ID:       "n1",
		CourseID: "course-1",
		VideoID:  "video-1",
		TSec:     10,
		Text:     "second",
	})
	if err != nil {
		t.Fatalf("editing note: %v", err)
	}

	assert.Equal(t, edited.Op, notes.OpUpdate, "op mismatch")
	assert.True(t, edited.Dirty(), "edited note should be dirty")
}

func TestUpsertUnknownID(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.Upsert("user-1", notes.NoteInput{
		ID:       "no-such-note",
		CourseID: "course-1",
		VideoID:  "video-1",
		TSec:     10,
		Text:     "content",
	})

	assert.Equal(t, err, notes.ErrNotFound, "error mismatch")
}

func TestUpsertValidation(t *testing.T) {
	store, db, _ := newTestStore(t)

	existing := []notes.Note{
		testutils.NewNote("n1", "user-1", "video-1", 10, "synced", notes.OpNone, t0),
	}
	testutils.MustSaveCollection(t, db, "user-1", existing)

	testCases := []struct {
		name  string
		input notes.NoteInput
	}{
		{
			name:  "missing video",
			input: notes.NoteInput{CourseID: "course-1", TSec: 10, Text: "content"},
		},
		{
			name:  "missing course",
			input: notes.NoteInput{VideoID: "video-1", TSec: 10, Text: "content"},
		},
		{
			name:  "negative seek position",
			input: notes.NoteInput{CourseID: "course-1", VideoID: "video-1", TSec: -1, Text: "content"},
		},
		{
			name:  "blank text",
			input: notes.NoteInput{CourseID: "course-1", VideoID: "video-1", TSec: 10, Text: "   "},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Upsert("user-1", tc.input)

			if _, ok := err.(*notes.ValidationError); !ok {
				t.Errorf("expected a validation error, got %v", err)
			}

			got := testutils.MustGetCollection(t, db, "user-1")
			assert.DeepEqual(t, got, existing, "collection should be unchanged")
		})
	}
}

func TestDeleteUnsyncedPurges(t *testing.T) {
	store, db, _ := newTestStore(t)

	testutils.MustSaveCollection(t, db, "user-1", []notes.Note{
		testutils.NewNote("n1", "user-1", "video-1", 10, "unsynced", notes.OpCreate, t0),
	})

	if err := store.Delete("user-1", "n1"); err != nil {
		t.Fatalf("deleting note: %v", err)
	}

	got := testutils.MustGetCollection(t, db, "user-1")
	assert.Equal(t, len(got), 0, "a note the server never saw should be purged")
}

func TestDeleteSyncedTombstones(t *testing.T) {
	store, db, c := newTestStore(t)

	testutils.MustSaveCollection(t, db, "user-1", []notes.Note{
		testutils.NewNote("n1", "user-1", "video-1", 10, "synced", notes.OpNone, t0),
	})

	c.Advance(time.Minute)

	if err := store.Delete("user-1", "n1"); err != nil {
		t.Fatalf("deleting note: %v", err)
	}

	got := testutils.MustGetCollection(t, db, "user-1")
	assert.Equal(t, len(got), 1, "tombstone should be retained")
	assert.Equal(t, got[0].Op, notes.OpDelete, "op mismatch")
	assert.Equal(t, got[0].UpdatedAt, t0.Add(time.Minute), "updated at mismatch")
}

func TestDeleteUnknownIsNoop(t *testing.T) {
	store, db, _ := newTestStore(t)

	testutils.MustSaveCollection(t, db, "user-1", []notes.Note{
		testutils.NewNote("n1", "user-1", "video-1", 10, "content", notes.OpNone, t0),
	})

	if err := store.Delete("user-1", "no-such-note"); err != nil {
		t.Fatalf("deleting note: %v", err)
	}

	got := testutils.MustGetCollection(t, db, "user-1")
	assert.Equal(t, len(got), 1, "collection should be unchanged")
}

func TestListByVideo(t *testing.T) {
	store, db, _ := newTestStore(t)

	testutils.MustSaveCollection(t, db, "user-1", []notes.Note{
		testutils.NewNote("n1", "user-1", "video-1", 30, "third", notes.OpNone, t0),
		testutils.NewNote("n2", "user-1", "video-1", 10, "first", notes.OpCreate, t0),
		testutils.NewNote("n3", "user-1", "video-1", 20, "deleted", notes.OpDelete, t0),
		testutils.NewNote("n4", "user-1", "video-2", 5, "other video", notes.OpNone, t0),
		testutils.NewNote("n5", "user-1", "video-1", 15, "second", notes.OpUpdate, t0),
	})

	got := store.ListByVideo("user-1", "course-1", "video-1")

	assert.Equal(t, len(got), 3, "result length mismatch")
	assert.Equal(t, got[0].ID, "n2", "first note mismatch")
	assert.Equal(t, got[1].ID, "n5", "second note mismatch")
	assert.Equal(t, got[2].ID, "n1", "third note mismatch")
}

func TestListByCourse(t *testing.T) {
	store, db, _ := newTestStore(t)

	n1 := testutils.NewNote("n1", "user-1", "video-1", 30, "a", notes.OpNone, t0)
	n2 := testutils.NewNote("n2", "user-1", "video-2", 10, "b", notes.OpNone, t0)
	other := testutils.NewNote("n3", "user-1", "video-3", 5, "c", notes.OpNone, t0)
	other.CourseID = "course-2"

	testutils.MustSaveCollection(t, db, "user-1", []notes.Note{n1, n2, other})

	got := store.ListByCourse("user-1", "course-1")

	assert.Equal(t, len(got), 2, "result length mismatch")
	assert.Equal(t, got[0].ID, "n2", "first note mismatch")
	assert.Equal(t, got[1].ID, "n1", "second note mismatch")
}

func TestGetDirty(t *testing.T) {
	store, db, _ := newTestStore(t)

	testutils.MustSaveCollection(t, db, "user-1", []notes.Note{
		testutils.NewNote("n1", "user-1", "video-1", 10, "clean", notes.OpNone, t0),
		testutils.NewNote("n2", "user-1", "video-1", 20, "created", notes.OpCreate, t0),
		testutils.NewNote("n3", "user-1", "video-1", 30, "deleted", notes.OpDelete, t0),
		testutils.NewNote("n4", "user-1", "video-1", 5, "updated", notes.OpUpdate, t0),
	})

	got := store.GetDirty("user-1")

	assert.Equal(t, len(got), 3, "result length mismatch")
	assert.Equal(t, got[0].ID, "n2", "dirty notes should keep storage order")
	assert.Equal(t, got[1].ID, "n3", "dirty notes should keep storage order")
	assert.Equal(t, got[2].ID, "n4", "dirty notes should keep storage order")
}

func TestMarkSynced(t *testing.T) {
	store, db, _ := newTestStore(t)

	testutils.MustSaveCollection(t, db, "user-1", []notes.Note{
		testutils.NewNote("n1", "user-1", "video-1", 10, "created", notes.OpCreate, t0),
		testutils.NewNote("n2", "user-1", "video-1", 20, "deleted", notes.OpDelete, t0),
		testutils.NewNote("n3", "user-1", "video-1", 30, "updated", notes.OpUpdate, t0),
	})

	if err := store.MarkSynced("user-1", []string{"n1", "n2", "no-such-note"}); err != nil {
		t.Fatalf("marking synced: %v", err)
	}

	got := testutils.MustGetCollection(t, db, "user-1")
	assert.Equal(t, len(got), 2, "tombstone should be purged")
	assert.Equal(t, got[0].ID, "n1", "note order mismatch")
	assert.Equal(t, got[0].Op, notes.OpNone, "acknowledged note should be clean")
	assert.Equal(t, got[1].ID, "n3", "note order mismatch")
	assert.Equal(t, got[1].Op, notes.OpUpdate, "unacknowledged note should stay dirty")

	// replaying the acknowledgement changes nothing
	if err := store.MarkSynced("user-1", []string{"n1", "n2"}); err != nil {
		t.Fatalf("replaying mark synced: %v", err)
	}

	again := testutils.MustGetCollection(t, db, "user-1")
	assert.DeepEqual(t, again, got, "replay should be a noop")
}

func TestMergeFromRemote(t *testing.T) {
	store, db, _ := newTestStore(t)

	testutils.MustSaveCollection(t, db, "user-1", []notes.Note{
		testutils.NewNote("n1", "user-1", "video-1", 10, "dirty local", notes.OpUpdate, t0.Add(time.Hour)),
		testutils.NewNote("n2", "user-1", "video-1", 20, "stale local", notes.OpNone, t0),
		testutils.NewNote("n3", "user-1", "video-1", 30, "fresh local", notes.OpNone, t0.Add(time.Hour)),
	})

	remote := []notes.Note{
		testutils.NewNote("n1", "user-1", "video-1", 10, "remote n1", notes.OpNone, t0.Add(2*time.Hour)),
		testutils.NewNote("n2", "user-1", "video-1", 20, "remote n2", notes.OpNone, t0.Add(time.Hour)),
		testutils.NewNote("n3", "user-1", "video-1", 30, "remote n3", notes.OpNone, t0),
		testutils.NewNote("n4", "user-1", "video-1", 40, "remote only", notes.OpUpdate, t0),
	}

	if err := store.MergeFromRemote("user-1", remote); err != nil {
		t.Fatalf("merging: %v", err)
	}

	got := testutils.MustGetCollection(t, db, "user-1")
	byID := map[string]notes.Note{}
	for _, n := range got {
		byID[n.ID] = n
	}

	assert.Equal(t, len(got), 4, "collection length mismatch")
	assert.Equal(t, byID["n1"].Text, "dirty local", "a dirty local note should win over the pull")
	assert.Equal(t, byID["n1"].Op, notes.OpUpdate, "dirty note should stay dirty")
	assert.Equal(t, byID["n2"].Text, "remote n2", "a newer remote note should overwrite")
	assert.Equal(t, byID["n3"].Text, "fresh local", "an older remote note should not overwrite")
	assert.Equal(t, byID["n4"].Text, "remote only", "an unknown remote note should be appended")
	assert.Equal(t, byID["n4"].Op, notes.OpNone, "pulled notes are never dirty")
}

func TestGet(t *testing.T) {
	store, db, _ := newTestStore(t)

	testutils.MustSaveCollection(t, db, "user-1", []notes.Note{
		testutils.NewNote("n1", "user-1", "video-1", 10, "content", notes.OpNone, t0),
		testutils.NewNote("n2", "user-1", "video-1", 20, "deleted", notes.OpDelete, t0),
	})

	n, err := store.Get("user-1", "n1")
	if err != nil {
		t.Fatalf("getting note: %v", err)
	}
	assert.Equal(t, n.Text, "content", "text mismatch")

	_, err = store.Get("user-1", "n2")
	assert.Equal(t, err, notes.ErrNotFound, "a tombstone should read as not found")
}

func TestClearAll(t *testing.T) {
	store, db, _ := newTestStore(t)

	testutils.MustSaveCollection(t, db, "user-1", []notes.Note{
		testutils.NewNote("n1", "user-1", "video-1", 10, "content", notes.OpCreate, t0),
	})

	if err := store.ClearAll("user-1"); err != nil {
		t.Fatalf("clearing: %v", err)
	}

	var count int
	database.MustScan(t, "counting collections",
		db.QueryRow("SELECT count(*) FROM note_collections WHERE user_id = ?", "user-1"), &count)
	assert.Equal(t, count, 0, "collection row should be gone")
}
