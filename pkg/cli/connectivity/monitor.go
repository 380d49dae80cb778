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

// Package connectivity tracks whether the seeknote server is reachable and
// notifies interested parties on reconnection.
package connectivity

import (
	"sync"

	"github.com/seeknote/seeknote/pkg/cli/log"
)

// Monitor tracks connectivity state. The onReconnect callback fires only on
// an offline-to-online transition, never on repeated online reports, so a
// flapping probe cannot trigger a stampede of callbacks.
type Monitor struct {
	mu          sync.Mutex
	online      bool
	onChange    func(online bool)
	onReconnect func()
}

// NewMonitor returns a monitor that starts out offline.
func NewMonitor(onChange func(online bool), onReconnect func()) *Monitor {
	return &Monitor{
		onChange:    onChange,
		onReconnect: onReconnect,
	}
}

// Online reports the last observed connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.online
}

// Update records a connectivity observation.
func (m *Monitor) Update(online bool) {
	m.mu.Lock()
	wasOnline := m.online
	m.online = online
	m.mu.Unlock()

	if online == wasOnline {
		return
	}

	log.Debug("connectivity: online=%t\n", online)

	if m.onChange != nil {
		m.onChange(online)
	}
	if online && m.onReconnect != nil {
		m.onReconnect()
	}
}
