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

package infra

import (
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/seeknote/seeknote/pkg/assert"
	"github.com/seeknote/seeknote/pkg/cli/consts"
	"github.com/seeknote/seeknote/pkg/cli/context"
	"github.com/seeknote/seeknote/pkg/cli/database"
)

func newTestCtx(t *testing.T) context.SeeknoteCtx {
	dir := t.TempDir()

	db, err := database.Open(filepath.Join(dir, "seeknote.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return context.SeeknoteCtx{DB: db}
}

func TestInitDB(t *testing.T) {
	ctx := newTestCtx(t)

	if err := InitDB(ctx); err != nil {
		t.Fatalf("initializing database: %v", err)
	}

	// running again is a noop
	if err := InitDB(ctx); err != nil {
		t.Fatalf("re-initializing database: %v", err)
	}

	var count int
	database.MustScan(t, "counting tables", ctx.DB.QueryRow(
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name IN ('note_collections', 'system')"), &count)
	assert.Equal(t, count, 2, "table count mismatch")
}

func TestInitSystem(t *testing.T) {
	ctx := newTestCtx(t)

	if err := InitDB(ctx); err != nil {
		t.Fatalf("initializing database: %v", err)
	}
	if err := InitSystem(ctx); err != nil {
		t.Fatalf("initializing system: %v", err)
	}

	var lastSyncAt int64
	if err := database.GetSystem(ctx.DB, consts.SystemLastSyncAt, &lastSyncAt); err != nil {
		t.Fatalf("getting last sync time: %v", err)
	}
	assert.Equal(t, lastSyncAt, int64(0), "last sync time should start at zero")

	var lastUpgrade int64
	if err := database.GetSystem(ctx.DB, consts.SystemLastUpgrade, &lastUpgrade); err != nil {
		t.Fatalf("getting last upgrade time: %v", err)
	}
	assert.True(t, lastUpgrade > 0, "last upgrade time should be seeded")

	// re-running does not clobber existing values
	database.MustExec(t, "bumping last sync time", ctx.DB,
		"UPDATE system SET value = ? WHERE key = ?", 42, consts.SystemLastSyncAt)

	if err := InitSystem(ctx); err != nil {
		t.Fatalf("re-initializing system: %v", err)
	}

	if err := database.GetSystem(ctx.DB, consts.SystemLastSyncAt, &lastSyncAt); err != nil {
		t.Fatalf("getting last sync time: %v", err)
	}
	assert.Equal(t, lastSyncAt, int64(42), "existing value should be kept")
}
