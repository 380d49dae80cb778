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

package ls

import (
	"github.com/pkg/errors"
	"github.com/seeknote/seeknote/pkg/cli/context"
	"github.com/seeknote/seeknote/pkg/cli/infra"
	"github.com/seeknote/seeknote/pkg/cli/log"
	"github.com/seeknote/seeknote/pkg/cli/notes"
	"github.com/seeknote/seeknote/pkg/cli/output"
	"github.com/spf13/cobra"
)

var courseFlag string

var example = `
 * List notes for a video
 seeknote ls intro-video --course go-basics

 * List all notes for a course
 seeknote ls --course go-basics`

// NewCmd returns a new ls command
func NewCmd(ctx context.SeeknoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls [video]",
		Short:   "List notes",
		Aliases: []string{"l"},
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&courseFlag, "course", "", "The course to list notes from")

	return cmd
}

func newRun(ctx context.SeeknoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if ctx.UserID == "" {
			return errors.New("not logged in")
		}
		if courseFlag == "" {
			return errors.New("course is empty")
		}

		store := notes.NewStore(ctx.DB, ctx.Clock)

		var ns []notes.Note
		if len(args) > 0 {
			ns = store.ListByVideo(ctx.UserID, courseFlag, args[0])
		} else {
			ns = store.ListByCourse(ctx.UserID, courseFlag)
		}

		if len(ns) == 0 {
			log.Info("no notes found\n")
			return nil
		}

		for _, n := range ns {
			output.NoteLine(n)
		}

		return nil
	}
}
