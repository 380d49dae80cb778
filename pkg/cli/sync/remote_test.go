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

package sync

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seeknote/seeknote/pkg/assert"
	"github.com/seeknote/seeknote/pkg/cli/context"
)

func newNotesServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
}

func newRemoteTestCtx(endpoint string) context.SeeknoteCtx {
	return context.SeeknoteCtx{
		APIEndpoint: endpoint,
		SessionKey:  "test-session",
		Version:     "test",
	}
}

func TestRemoteSetEndpoint(t *testing.T) {
	var oldHits, newHits int

	oldServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		oldHits++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer oldServer.Close()

	newServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		newHits++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer newServer.Close()

	remote := NewRemote(newRemoteTestCtx(oldServer.URL))

	if _, err := remote.GetNotes("user-1"); err != nil {
		t.Fatalf("getting notes: %v", err)
	}

	remote.SetEndpoint(newServer.URL)

	if _, err := remote.GetNotes("user-1"); err != nil {
		t.Fatalf("getting notes after reconfiguration: %v", err)
	}

	assert.Equal(t, oldHits, 1, "old endpoint hit count mismatch")
	assert.Equal(t, newHits, 1, "new endpoint hit count mismatch")
}

// Reloading the config swaps the endpoint while requests may be in flight.
// The swap has to be safe against concurrent use of the remote.
func TestRemoteSetEndpointConcurrent(t *testing.T) {
	server := newNotesServer()
	defer server.Close()

	remote := NewRemote(newRemoteTestCtx(server.URL))

	done := make(chan struct{})
	go func() {
		defer close(done)

		for i := 0; i < 50; i++ {
			remote.SetEndpoint(server.URL)
		}
	}()

	for i := 0; i < 50; i++ {
		if _, err := remote.GetNotes("user-1"); err != nil {
			t.Fatalf("getting notes: %v", err)
		}
	}

	<-done
}
