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

package edit

import (
	"github.com/pkg/errors"
	"github.com/seeknote/seeknote/pkg/cli/context"
	"github.com/seeknote/seeknote/pkg/cli/infra"
	"github.com/seeknote/seeknote/pkg/cli/log"
	"github.com/seeknote/seeknote/pkg/cli/notes"
	"github.com/seeknote/seeknote/pkg/cli/output"
	"github.com/seeknote/seeknote/pkg/cli/sync"
	"github.com/spf13/cobra"
)

var contentFlag string

var example = `
 seeknote edit 8f2a5c1e-... -c "corrected content"`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new edit command
func NewCmd(ctx context.SeeknoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <note id>",
		Short:   "Edit a note",
		Aliases: []string{"e"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&contentFlag, "content", "c", "", "The new content for the note")

	return cmd
}

func newRun(ctx context.SeeknoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if ctx.UserID == "" {
			return errors.New("not logged in")
		}

		noteID := args[0]
		if contentFlag == "" {
			return errors.New("Empty content")
		}

		store := notes.NewStore(ctx.DB, ctx.Clock)
		existing, err := store.Get(ctx.UserID, noteID)
		if err == notes.ErrNotFound {
			return errors.Errorf("note %s not found", noteID)
		}
		if err != nil {
			return errors.Wrap(err, "finding the note")
		}

		n, err := store.Upsert(ctx.UserID, notes.NoteInput{
			ID:       existing.ID,
			CourseID: existing.CourseID,
			VideoID:  existing.VideoID,
			TSec:     existing.TSec,
			Text:     contentFlag,
		})
		if err != nil {
			return errors.Wrap(err, "editing the note")
		}

		log.Success("edited the note\n")
		output.NoteInfo(n)

		sync.Run(ctx, "note change")

		return nil
	}
}
