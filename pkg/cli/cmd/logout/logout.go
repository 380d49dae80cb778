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

package logout

import (
	"github.com/pkg/errors"
	"github.com/seeknote/seeknote/pkg/cli/consts"
	"github.com/seeknote/seeknote/pkg/cli/context"
	"github.com/seeknote/seeknote/pkg/cli/database"
	"github.com/seeknote/seeknote/pkg/cli/infra"
	"github.com/seeknote/seeknote/pkg/cli/log"
	"github.com/seeknote/seeknote/pkg/cli/notes"
	"github.com/spf13/cobra"
)

// NewCmd returns a new logout command
func NewCmd(ctx context.SeeknoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out of the seeknote server",
		RunE:  newRun(ctx),
	}

	return cmd
}

func newRun(ctx context.SeeknoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if ctx.SessionKey == "" {
			log.Error("not logged in\n")
			return nil
		}

		if ctx.UserID != "" {
			store := notes.NewStore(ctx.DB, ctx.Clock)
			if err := store.ClearAll(ctx.UserID); err != nil {
				return errors.Wrap(err, "clearing the local notes")
			}
		}

		tx, err := ctx.DB.Begin()
		if err != nil {
			return errors.Wrap(err, "beginning a transaction")
		}

		if err := database.DeleteSystem(tx, consts.SystemUserID); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "deleting user id")
		}
		if err := database.DeleteSystem(tx, consts.SystemSessionKey); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "deleting session token")
		}
		if err := database.DeleteSystem(tx, consts.SystemSessionKeyExpiry); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "deleting session token expiry")
		}

		if err := tx.Commit(); err != nil {
			return errors.Wrap(err, "committing transaction")
		}

		log.Success("logged out\n")

		return nil
	}
}
