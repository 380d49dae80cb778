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

package add

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/seeknote/seeknote/pkg/cli/context"
	"github.com/seeknote/seeknote/pkg/cli/infra"
	"github.com/seeknote/seeknote/pkg/cli/log"
	"github.com/seeknote/seeknote/pkg/cli/notes"
	"github.com/seeknote/seeknote/pkg/cli/output"
	"github.com/seeknote/seeknote/pkg/cli/sync"
	"github.com/seeknote/seeknote/pkg/cli/upgrade"
	"github.com/spf13/cobra"
)

var contentFlag string
var courseFlag string

var example = `
 * Add a note at 1m32s into a video
 seeknote add intro-video 92 --course go-basics -c "maps are not safe for concurrent use"`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new add command
func NewCmd(ctx context.SeeknoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <video> <seconds>",
		Short:   "Add a new note",
		Aliases: []string{"a", "n", "new"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&contentFlag, "content", "c", "", "The content for the note")
	f.StringVar(&courseFlag, "course", "", "The course the video belongs to")

	return cmd
}

func newRun(ctx context.SeeknoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if ctx.UserID == "" {
			return errors.New("not logged in")
		}

		videoID := args[0]
		tSec, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return errors.Wrap(err, "parsing the seek position")
		}

		store := notes.NewStore(ctx.DB, ctx.Clock)
		n, err := store.Upsert(ctx.UserID, notes.NoteInput{
			CourseID: courseFlag,
			VideoID:  videoID,
			TSec:     tSec,
			Text:     contentFlag,
		})
		if err != nil {
			return errors.Wrap(err, "writing the note")
		}

		log.Successf("added to %s\n", videoID)
		output.NoteInfo(n)

		sync.Run(ctx, "note change")

		if err := upgrade.Check(ctx); err != nil {
			log.Error(errors.Wrap(err, "automatically checking updates").Error())
		}

		return nil
	}
}
