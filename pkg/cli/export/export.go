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

// Package export renders notes as markdown documents
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/seeknote/seeknote/pkg/cli/notes"
)

// FormatTime renders a seek position in seconds as m:ss.
func FormatTime(tSec float64) string {
	total := int(tSec)
	m := total / 60
	s := total % 60

	return fmt.Sprintf("%d:%02d", m, s)
}

// SanitizeFilename replaces characters that are unsafe in file names.
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"\"", "-",
		"<", "-",
		">", "-",
		"|", "-",
	)

	ret := strings.TrimSpace(replacer.Replace(name))
	if ret == "" {
		ret = "untitled"
	}

	return ret
}

// MarkdownVideo renders the notes of a single video as markdown. Notes are
// ordered by seek position.
func MarkdownVideo(videoID string, ns []notes.Note) string {
	sorted := make([]notes.Note, len(ns))
	copy(sorted, ns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TSec < sorted[j].TSec
	})

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", videoID)

	for _, n := range sorted {
		fmt.Fprintf(&b, "- **[%s]** %s\n", FormatTime(n.TSec), n.Text)
	}

	return b.String()
}

// MarkdownCourse renders all notes of a course as one markdown document,
// grouped per video. Videos appear in the order of their earliest note.
func MarkdownCourse(courseID string, ns []notes.Note) string {
	byVideo := map[string][]notes.Note{}
	var order []string
	for _, n := range ns {
		if _, ok := byVideo[n.VideoID]; !ok {
			order = append(order, n.VideoID)
		}
		byVideo[n.VideoID] = append(byVideo[n.VideoID], n)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", courseID)

	for i, videoID := range order {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(MarkdownVideo(videoID, byVideo[videoID]))
	}

	return b.String()
}

// Stats summarizes a set of notes.
type Stats struct {
	NoteCount  int
	VideoCount int
	Oldest     time.Time
	Newest     time.Time
}

// GetStats computes summary statistics over the given notes.
func GetStats(ns []notes.Note) (Stats, error) {
	var ret Stats

	videos := map[string]bool{}
	for _, n := range ns {
		if n.ID == "" {
			return ret, errors.New("note without an id")
		}

		ret.NoteCount++
		videos[n.VideoID] = true

		if ret.Oldest.IsZero() || n.CreatedAt.Before(ret.Oldest) {
			ret.Oldest = n.CreatedAt
		}
		if n.UpdatedAt.After(ret.Newest) {
			ret.Newest = n.UpdatedAt
		}
	}

	ret.VideoCount = len(videos)

	return ret, nil
}
