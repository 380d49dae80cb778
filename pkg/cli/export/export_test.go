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
	"testing"
	"time"

	"github.com/seeknote/seeknote/pkg/assert"
	"github.com/seeknote/seeknote/pkg/cli/notes"
)

func TestFormatTime(t *testing.T) {
	testCases := []struct {
		tSec     float64
		expected string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{59.9, "0:59"},
		{60, "1:00"},
		{92, "1:32"},
		{3605, "60:05"},
	}

	for _, tc := range testCases {
		assert.Equal(t, FormatTime(tc.tSec), tc.expected, "format mismatch")
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, SanitizeFilename("go: the/basics?"), "go- the-basics-", "sanitized name mismatch")
	assert.Equal(t, SanitizeFilename("  plain  "), "plain", "sanitized name mismatch")
	assert.Equal(t, SanitizeFilename("   "), "untitled", "a blank name should fall back")
}

func TestMarkdownVideo(t *testing.T) {
	ns := []notes.Note{
		{ID: "n1", VideoID: "intro", TSec: 92, Text: "second"},
		{ID: "n2", VideoID: "intro", TSec: 10, Text: "first"},
	}

	got := MarkdownVideo("intro", ns)
	expected := `## intro

- **[0:10]** first
- **[1:32]** second
`

	assert.Equal(t, got, expected, "markdown mismatch")
}

func TestMarkdownCourse(t *testing.T) {
	ns := []notes.Note{
		{ID: "n1", VideoID: "intro", TSec: 10, Text: "a"},
		{ID: "n2", VideoID: "setup", TSec: 5, Text: "b"},
		{ID: "n3", VideoID: "intro", TSec: 20, Text: "c"},
	}

	got := MarkdownCourse("go-basics", ns)
	expected := `# go-basics

## intro

- **[0:10]** a
- **[0:20]** c

## setup

- **[0:05]** b
`

	assert.Equal(t, got, expected, "markdown mismatch")
}

func TestGetStats(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	ns := []notes.Note{
		{ID: "n1", VideoID: "intro", CreatedAt: t1, UpdatedAt: t2},
		{ID: "n2", VideoID: "intro", CreatedAt: t2, UpdatedAt: t2},
		{ID: "n3", VideoID: "setup", CreatedAt: t2, UpdatedAt: t1},
	}

	got, err := GetStats(ns)
	if err != nil {
		t.Fatalf("getting stats: %v", err)
	}

	assert.Equal(t, got.NoteCount, 3, "note count mismatch")
	assert.Equal(t, got.VideoCount, 2, "video count mismatch")
	assert.Equal(t, got.Oldest, t1, "oldest mismatch")
	assert.Equal(t, got.Newest, t2, "newest mismatch")
}
