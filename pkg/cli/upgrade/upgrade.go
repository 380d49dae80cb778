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

// Package upgrade checks for a newer release of the seeknote cli
package upgrade

import (
	gocontext "context"
	"strings"

	"github.com/google/go-github/github"
	"github.com/pkg/errors"
	"github.com/seeknote/seeknote/pkg/cli/consts"
	"github.com/seeknote/seeknote/pkg/cli/context"
	"github.com/seeknote/seeknote/pkg/cli/database"
	"github.com/seeknote/seeknote/pkg/cli/log"
)

// upgradeInterval is the minimum number of seconds between upgrade checks
var upgradeInterval int64 = 86400 * 7

const (
	repoOwner = "seeknote"
	repoName  = "seeknote"
)

func getLatestVersion(ctx context.SeeknoteCtx) (string, error) {
	gh := github.NewClient(ctx.HTTPClient)

	release, _, err := gh.Repositories.GetLatestRelease(gocontext.Background(), repoOwner, repoName)
	if err != nil {
		return "", errors.Wrap(err, "fetching the latest release")
	}

	tag := release.GetTagName()
	version := strings.TrimPrefix(tag, "cli-v")
	version = strings.TrimPrefix(version, "v")

	return version, nil
}

func shouldCheck(ctx context.SeeknoteCtx) (bool, error) {
	if !ctx.EnableUpgradeCheck {
		return false, nil
	}

	var lastUpgrade int64
	err := database.GetSystem(ctx.DB, consts.SystemLastUpgrade, &lastUpgrade)
	if err != nil {
		return false, errors.Wrap(err, "getting last upgrade time")
	}

	now := ctx.Clock.Now().Unix()

	return now-lastUpgrade > upgradeInterval, nil
}

func touchLastUpgrade(ctx context.SeeknoteCtx) error {
	now := ctx.Clock.Now().Unix()
	err := database.UpdateSystem(ctx.DB, consts.SystemLastUpgrade, now)
	if err != nil {
		return errors.Wrap(err, "updating last upgrade time")
	}

	return nil
}

// Check checks for a new version of the cli and prints a message if one is
// available. Checks are throttled so that the network is hit at most once
// per interval.
func Check(ctx context.SeeknoteCtx) error {
	ok, err := shouldCheck(ctx)
	if err != nil {
		return errors.Wrap(err, "checking if upgrade check is due")
	}
	if !ok {
		return nil
	}

	latest, err := getLatestVersion(ctx)
	if err != nil {
		return errors.Wrap(err, "getting the latest version")
	}

	if err := touchLastUpgrade(ctx); err != nil {
		return errors.Wrap(err, "recording the check")
	}

	if latest == ctx.Version {
		return nil
	}

	log.Infof("a newer version (v%s) is available. Please upgrade.\n", latest)

	return nil
}
