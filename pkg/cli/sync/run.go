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
	"github.com/seeknote/seeknote/pkg/cli/connectivity"
	"github.com/seeknote/seeknote/pkg/cli/context"
	"github.com/seeknote/seeknote/pkg/cli/log"
	"github.com/seeknote/seeknote/pkg/cli/notes"
)

// Run performs a best-effort sync pass for the current user and waits for it
// to finish. The pass is dropped when the server is unreachable or no user is
// logged in; local changes stay dirty for a later pass either way.
func Run(ctx context.SeeknoteCtx, reason string) {
	store := notes.NewStore(ctx.DB, ctx.Clock)
	c := NewCoordinator(store, NewRemote(ctx), ctx.DB, ctx.Clock, func() string {
		return ctx.UserID
	})

	probe, err := connectivity.DialProbe(ctx.APIEndpoint)
	if err != nil {
		log.Debug("sync (%s): %v\n", reason, err)
		return
	}

	c.SetOnline(probe())
	c.RequestSync(reason)
	c.Wait()
}
