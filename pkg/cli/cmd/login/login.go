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

package login

import (
	"github.com/pkg/errors"
	"github.com/seeknote/seeknote/pkg/cli/consts"
	"github.com/seeknote/seeknote/pkg/cli/context"
	"github.com/seeknote/seeknote/pkg/cli/database"
	"github.com/seeknote/seeknote/pkg/cli/infra"
	"github.com/seeknote/seeknote/pkg/cli/log"
	"github.com/spf13/cobra"
)

var userFlag string
var tokenFlag string
var expiryFlag int64

var example = `
 seeknote login --user user-42 --token 8f2a...`

// NewCmd returns a new login command
func NewCmd(ctx context.SeeknoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Log in to the seeknote server",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&userFlag, "user", "", "the user id")
	f.StringVar(&tokenFlag, "token", "", "the session token")
	f.Int64Var(&expiryFlag, "expiry", 0, "the session token expiry as a unix timestamp")

	return cmd
}

func newRun(ctx context.SeeknoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if userFlag == "" {
			return errors.New("user id is empty")
		}
		if tokenFlag == "" {
			return errors.New("session token is empty")
		}

		tx, err := ctx.DB.Begin()
		if err != nil {
			return errors.Wrap(err, "beginning a transaction")
		}

		if err := database.UpdateSystem(tx, consts.SystemUserID, userFlag); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "saving user id")
		}
		if err := database.UpdateSystem(tx, consts.SystemSessionKey, tokenFlag); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "saving session token")
		}
		if err := database.UpdateSystem(tx, consts.SystemSessionKeyExpiry, expiryFlag); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "saving session token expiry")
		}

		if err := tx.Commit(); err != nil {
			return errors.Wrap(err, "committing transaction")
		}

		log.Success("logged in\n")

		return nil
	}
}
