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

package status

import (
	"github.com/pkg/errors"
	"github.com/seeknote/seeknote/pkg/cli/consts"
	"github.com/seeknote/seeknote/pkg/cli/context"
	"github.com/seeknote/seeknote/pkg/cli/database"
	"github.com/seeknote/seeknote/pkg/cli/infra"
	"github.com/seeknote/seeknote/pkg/cli/notes"
	"github.com/seeknote/seeknote/pkg/cli/output"
	"github.com/spf13/cobra"
)

// NewCmd returns a new status command
func NewCmd(ctx context.SeeknoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show pending local changes",
		RunE:  newRun(ctx),
	}

	return cmd
}

func newRun(ctx context.SeeknoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if ctx.UserID == "" {
			return errors.New("not logged in")
		}

		var lastSyncAt int64
		if err := database.GetSystem(ctx.DB, consts.SystemLastSyncAt, &lastSyncAt); err != nil {
			return errors.Wrap(err, "getting last sync time")
		}

		store := notes.NewStore(ctx.DB, ctx.Clock)
		dirty := store.GetDirty(ctx.UserID)

		output.SyncStatus(dirty, lastSyncAt)

		return nil
	}
}
