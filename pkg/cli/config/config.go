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

// Package config provides interfaces to the seeknote configuration
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/seeknote/seeknote/pkg/cli/consts"
	"github.com/seeknote/seeknote/pkg/cli/context"
	"gopkg.in/yaml.v2"
)

// Config holds seeknote configuration
type Config struct {
	APIEndpoint         string `yaml:"apiEndpoint"`
	EnableUpgradeCheck  bool   `yaml:"enableUpgradeCheck"`
	PollIntervalSeconds int    `yaml:"pollIntervalSeconds"`
}

// GetPath returns the path to the seeknote config file
func GetPath(ctx context.SeeknoteCtx) string {
	return fmt.Sprintf("%s/%s/%s", ctx.Paths.Config, consts.SeeknoteDirName, consts.ConfigFilename)
}

func getEnvPath(ctx context.SeeknoteCtx) string {
	return filepath.Join(ctx.Paths.Config, consts.SeeknoteDirName, consts.EnvFilename)
}

// Read reads the config file, applying any overrides from the env file
// in the config directory.
func Read(ctx context.SeeknoteCtx) (Config, error) {
	var ret Config

	configPath := GetPath(ctx)
	b, err := ioutil.ReadFile(configPath)
	if err != nil {
		return ret, errors.Wrap(err, "reading config file")
	}

	err = yaml.Unmarshal(b, &ret)
	if err != nil {
		return ret, errors.Wrap(err, "unmarshalling config")
	}

	envPath := getEnvPath(ctx)
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return ret, errors.Wrap(err, "loading env file")
		}
	}
	if endpoint := os.Getenv("SEEKNOTE_API_ENDPOINT"); endpoint != "" {
		ret.APIEndpoint = endpoint
	}

	return ret, nil
}

// Write writes the config to the config file
func Write(ctx context.SeeknoteCtx, cf Config) error {
	b, err := yaml.Marshal(cf)
	if err != nil {
		return errors.Wrap(err, "marshalling config")
	}

	configPath := GetPath(ctx)
	err = ioutil.WriteFile(configPath, b, 0644)
	if err != nil {
		return errors.Wrap(err, "writing the config file")
	}

	return nil
}
