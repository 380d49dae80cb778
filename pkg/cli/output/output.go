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

// Package output provides functions to print informations on the terminal
// in a consistent manner
package output

import (
	"fmt"
	"time"

	"github.com/seeknote/seeknote/pkg/cli/export"
	"github.com/seeknote/seeknote/pkg/cli/log"
	"github.com/seeknote/seeknote/pkg/cli/notes"
)

// NoteLine prints a single note as a list entry.
func NoteLine(n notes.Note) {
	marker := " "
	if n.Dirty() {
		marker = "*"
	}

	log.Plainf("%s [%s] %s\n", marker, export.FormatTime(n.TSec), n.Text)
}

// NoteInfo prints a note information
func NoteInfo(n notes.Note) {
	log.Infof("video: %s\n", n.VideoID)
	log.Infof("course: %s\n", n.CourseID)
	log.Infof("position: %s\n", export.FormatTime(n.TSec))
	log.Infof("created at: %s\n", n.CreatedAt.Format("Jan 2, 2006 3:04pm (MST)"))
	if !n.UpdatedAt.Equal(n.CreatedAt) {
		log.Infof("updated at: %s\n", n.UpdatedAt.Format("Jan 2, 2006 3:04pm (MST)"))
	}
	log.Infof("note id: %s\n", n.ID)

	fmt.Printf("\n------------------------content------------------------\n")
	fmt.Printf("%s", n.Text)
	fmt.Printf("\n-------------------------------------------------------\n")
}

// SyncStatus prints the pending state of the local store.
func SyncStatus(dirty []notes.Note, lastSyncAt int64) {
	if lastSyncAt == 0 {
		log.Infof("last sync: never\n")
	} else {
		log.Infof("last sync: %s\n", time.Unix(lastSyncAt, 0).Format("Jan 2, 2006 3:04pm (MST)"))
	}

	log.Infof("pending changes: %d\n", len(dirty))

	for _, n := range dirty {
		log.Plainf("  %s %s\n", n.Op.String(), n.ID)
	}
}
