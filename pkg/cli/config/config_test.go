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

package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/seeknote/seeknote/pkg/assert"
	"github.com/seeknote/seeknote/pkg/cli/consts"
	"github.com/seeknote/seeknote/pkg/cli/context"
)

func newTestCtx(t *testing.T) context.SeeknoteCtx {
	configHome := t.TempDir()

	if err := os.MkdirAll(filepath.Join(configHome, consts.SeeknoteDirName), 0755); err != nil {
		t.Fatalf("creating config dir: %v", err)
	}

	return context.SeeknoteCtx{
		Paths: context.Paths{Config: configHome},
	}
}

func TestReadWrite(t *testing.T) {
	ctx := newTestCtx(t)

	cf := Config{
		APIEndpoint:         "https://api.example.com",
		EnableUpgradeCheck:  true,
		PollIntervalSeconds: 15,
	}

	if err := Write(ctx, cf); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	got, err := Read(ctx)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}

	assert.DeepEqual(t, got, cf, "config mismatch")
}

func TestReadMissing(t *testing.T) {
	ctx := newTestCtx(t)

	_, err := Read(ctx)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestReadEnvOverride(t *testing.T) {
	ctx := newTestCtx(t)

	if err := Write(ctx, Config{APIEndpoint: "https://api.example.com"}); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	envPath := filepath.Join(ctx.Paths.Config, consts.SeeknoteDirName, consts.EnvFilename)
	if err := ioutil.WriteFile(envPath, []byte("SEEKNOTE_API_ENDPOINT=https://staging.example.com\n"), 0644); err != nil {
		t.Fatalf("writing env file: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("SEEKNOTE_API_ENDPOINT")
	})

	got, err := Read(ctx)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}

	assert.Equal(t, got.APIEndpoint, "https://staging.example.com", "the env file should override the config")
}
