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

package notes

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is an error for an upsert that references a note id that
// does not exist in the user's collection
var ErrNotFound = errors.New("note not found")

// ValidationError is an error for a note input that is missing a
// required field or carries an invalid value
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid note: %s %s", e.Field, e.Reason)
}

func validateInput(userID string, input NoteInput) error {
	if userID == "" {
		return &ValidationError{Field: "userId", Reason: "is required"}
	}
	if input.CourseID == "" {
		return &ValidationError{Field: "courseId", Reason: "is required"}
	}
	if input.VideoID == "" {
		return &ValidationError{Field: "videoId", Reason: "is required"}
	}
	if input.TSec < 0 {
		return &ValidationError{Field: "tSec", Reason: "must be >= 0"}
	}
	if trimText(input.Text) == "" {
		return &ValidationError{Field: "text", Reason: "is required"}
	}

	return nil
}
