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

package export

import (
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/seeknote/seeknote/pkg/cli/context"
	"github.com/seeknote/seeknote/pkg/cli/export"
	"github.com/seeknote/seeknote/pkg/cli/infra"
	"github.com/seeknote/seeknote/pkg/cli/log"
	"github.com/seeknote/seeknote/pkg/cli/notes"
	"github.com/spf13/cobra"
)

var videoFlag string
var outFlag string
var statsFlag bool

var example = `
 * Export all notes of a course as markdown
 seeknote export go-basics

 * Export a single video
 seeknote export go-basics --video intro-video -o notes.md

 * Print summary statistics instead of exporting
 seeknote export go-basics --stats`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new export command
func NewCmd(ctx context.SeeknoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export <course>",
		Short:   "Export notes as markdown",
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVar(&videoFlag, "video", "", "export a single video instead of the whole course")
	f.StringVarP(&outFlag, "out", "o", "", "the path to write the markdown file to")
	f.BoolVar(&statsFlag, "stats", false, "print summary statistics instead of exporting")

	return cmd
}

func getOutPath(courseID string) string {
	if outFlag != "" {
		return outFlag
	}

	return fmt.Sprintf("%s.md", export.SanitizeFilename(courseID))
}

func newRun(ctx context.SeeknoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if ctx.UserID == "" {
			return errors.New("not logged in")
		}

		courseID := args[0]
		store := notes.NewStore(ctx.DB, ctx.Clock)

		var ns []notes.Note
		if videoFlag != "" {
			ns = store.ListByVideo(ctx.UserID, courseID, videoFlag)
		} else {
			ns = store.ListByCourse(ctx.UserID, courseID)
		}

		if statsFlag {
			return printStats(ns)
		}

		var content string
		if videoFlag != "" {
			content = export.MarkdownVideo(videoFlag, ns)
		} else {
			content = export.MarkdownCourse(courseID, ns)
		}

		path := getOutPath(courseID)
		if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
			return errors.Wrap(err, "writing the markdown file")
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		log.Successf("exported to %s\n", abs)

		return nil
	}
}

func printStats(ns []notes.Note) error {
	stats, err := export.GetStats(ns)
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}

	log.Infof("notes: %d\n", stats.NoteCount)
	log.Infof("videos: %d\n", stats.VideoCount)
	if stats.NoteCount > 0 {
		log.Infof("oldest: %s\n", stats.Oldest.Format("Jan 2, 2006 3:04pm (MST)"))
		log.Infof("newest: %s\n", stats.Newest.Format("Jan 2, 2006 3:04pm (MST)"))
	}

	return nil
}
