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

// Package sync coordinates the reconciliation between the local note store
// and the seeknote server. At most one sync pass runs at a time; requests
// that arrive while a pass is in flight are dropped, because the running
// pass reads the store fresh and picks up any changes the request was for.
package sync

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/seeknote/seeknote/pkg/cli/consts"
	"github.com/seeknote/seeknote/pkg/cli/database"
	"github.com/seeknote/seeknote/pkg/cli/log"
	"github.com/seeknote/seeknote/pkg/cli/notes"
	"github.com/seeknote/seeknote/pkg/clock"
)

// Remote is the server-side surface a sync pass talks to.
type Remote interface {
	SyncNote(n notes.Note) error
	DeleteNote(noteID string) error
	GetNotes(userID string) ([]notes.Note, error)
}

// Coordinator runs sync passes between the local store and a remote.
type Coordinator struct {
	store  *notes.Store
	remote Remote
	db     *database.DB
	clock  clock.Clock
	userID func() string

	mu      sync.Mutex
	syncing bool
	online  bool
	wg      sync.WaitGroup
}

// NewCoordinator returns a sync coordinator. userID reports the currently
// logged in user and returns an empty string when logged out.
func NewCoordinator(store *notes.Store, remote Remote, db *database.DB, c clock.Clock, userID func() string) *Coordinator {
	return &Coordinator{
		store:  store,
		remote: remote,
		db:     db,
		clock:  c,
		userID: userID,
	}
}

// SetOnline records the current connectivity state. Passes requested while
// offline are dropped.
func (c *Coordinator) SetOnline(online bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.online = online
}

// RequestSync starts a sync pass in the background unless one is already
// running, the device is offline, or no user is logged in. It never blocks
// and never returns an error; failures inside a pass are logged and the
// dirty state stays put for the next pass.
func (c *Coordinator) RequestSync(reason string) {
	c.mu.Lock()

	if c.syncing {
		c.mu.Unlock()
		log.Debug("sync (%s): skipped, already in flight\n", reason)
		return
	}
	if !c.online {
		c.mu.Unlock()
		log.Debug("sync (%s): skipped, offline\n", reason)
		return
	}

	uid := c.userID()
	if uid == "" {
		c.mu.Unlock()
		log.Debug("sync (%s): skipped, not logged in\n", reason)
		return
	}

	c.syncing = true
	c.wg.Add(1)
	c.mu.Unlock()

	log.Debug("sync (%s): starting\n", reason)

	go func() {
		defer func() {
			c.mu.Lock()
			c.syncing = false
			c.mu.Unlock()
			c.wg.Done()
		}()

		if err := c.runPass(uid); err != nil {
			log.Debug("sync (%s): %v\n", reason, err)
		}
	}()
}

// Wait blocks until any in-flight sync pass has finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// runPass pushes dirty notes, pulls the server state and merges it into the
// local store. Every step is best-effort: a note that fails to push stays
// dirty, and a failed pull leaves the local state untouched.
func (c *Coordinator) runPass(userID string) error {
	dirty := c.store.GetDirty(userID)

	var synced []string
	for _, n := range dirty {
		var err error
		if n.Op == notes.OpDelete {
			err = c.remote.DeleteNote(n.ID)
		} else {
			err = c.remote.SyncNote(n)
		}
		if err != nil {
			log.Debug("pushing note %s: %v\n", n.ID, err)
			continue
		}

		synced = append(synced, n.ID)
	}

	if len(synced) > 0 {
		if err := c.store.MarkSynced(userID, synced); err != nil {
			return errors.Wrap(err, "marking notes synced")
		}
	}

	remote, err := c.remote.GetNotes(userID)
	if err != nil {
		log.Debug("pulling notes: %v\n", err)
	} else {
		if err := c.store.MergeFromRemote(userID, remote); err != nil {
			return errors.Wrap(err, "merging remote notes")
		}
	}

	if err := c.recordLastSync(); err != nil {
		return errors.Wrap(err, "recording sync time")
	}

	return nil
}

func (c *Coordinator) recordLastSync() error {
	if c.db == nil {
		return nil
	}

	return database.UpdateSystem(c.db, consts.SystemLastSyncAt, c.clock.Now().UTC().Unix())
}

// SyncOnAppStart requests a pass when the application comes up.
func (c *Coordinator) SyncOnAppStart() {
	c.RequestSync("app start")
}

// SyncOnAppForeground requests a pass when the application returns to
// the foreground.
func (c *Coordinator) SyncOnAppForeground() {
	c.RequestSync("app foreground")
}

// SyncOnNoteChange requests a pass after a local mutation.
func (c *Coordinator) SyncOnNoteChange() {
	c.RequestSync("note change")
}

// SyncOnReconnect requests a pass when connectivity comes back.
func (c *Coordinator) SyncOnReconnect() {
	c.RequestSync("reconnect")
}
