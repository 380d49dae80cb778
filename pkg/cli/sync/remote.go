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

package sync

import (
	"sync"

	"github.com/seeknote/seeknote/pkg/cli/client"
	"github.com/seeknote/seeknote/pkg/cli/context"
	"github.com/seeknote/seeknote/pkg/cli/notes"
)

// ServerRemote is a Remote backed by the seeknote server api. The endpoint
// can be swapped at runtime so that a config reload in a long-running
// process is picked up by subsequent requests.
type ServerRemote struct {
	mu  sync.Mutex
	ctx context.SeeknoteCtx
}

// NewRemote returns a remote that talks to the server configured in the
// given context.
func NewRemote(ctx context.SeeknoteCtx) *ServerRemote {
	return &ServerRemote{ctx: ctx}
}

// SetEndpoint replaces the api endpoint used by subsequent requests. Safe to
// call while a sync pass is in flight.
func (r *ServerRemote) SetEndpoint(endpoint string) {
	r.mu.Lock()
	r.ctx.APIEndpoint = endpoint
	r.mu.Unlock()
}

func (r *ServerRemote) apiCtx() context.SeeknoteCtx {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ctx
}

func (r *ServerRemote) SyncNote(n notes.Note) error {
	return client.SyncNote(r.apiCtx(), n)
}

func (r *ServerRemote) DeleteNote(noteID string) error {
	return client.DeleteNote(r.apiCtx(), noteID)
}

func (r *ServerRemote) GetNotes(userID string) ([]notes.Note, error) {
	return client.GetNotes(r.apiCtx(), userID)
}
