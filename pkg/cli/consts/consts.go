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

// Package consts provides definitions of constants
package consts

var (
	// SeeknoteDirName is the name of the directory containing seeknote files
	SeeknoteDirName = "seeknote"
	// SeeknoteDBFileName is a filename for the seeknote SQLite database
	SeeknoteDBFileName = "seeknote.db"
	// ConfigFilename is the name of the config file
	ConfigFilename = "seeknoterc"
	// EnvFilename is the name of the optional env file overriding config values
	EnvFilename = "env"

	// SystemLastSyncAt is the timestamp of the last completed sync pass
	SystemLastSyncAt = "last_sync_time"
	// SystemLastUpgrade is the timestamp at which the system most recently checked for an upgrade
	SystemLastUpgrade = "last_upgrade"
	// SystemSessionKey is the session key
	SystemSessionKey = "session_token"
	// SystemSessionKeyExpiry is the timestamp at which the session key will expire
	SystemSessionKeyExpiry = "session_token_expiry"
	// SystemUserID is the id of the authenticated user
	SystemUserID = "user_id"
)
