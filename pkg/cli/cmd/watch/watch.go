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

package watch

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/radovskyb/watcher"
	"github.com/seeknote/seeknote/pkg/cli/config"
	"github.com/seeknote/seeknote/pkg/cli/connectivity"
	"github.com/seeknote/seeknote/pkg/cli/context"
	"github.com/seeknote/seeknote/pkg/cli/infra"
	"github.com/seeknote/seeknote/pkg/cli/log"
	"github.com/seeknote/seeknote/pkg/cli/notes"
	"github.com/seeknote/seeknote/pkg/cli/sync"
	"github.com/spf13/cobra"
)

// NewCmd returns a new watch command
func NewCmd(ctx context.SeeknoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep notes in sync in the background",
		Long: `Runs in the foreground, probing the server on an interval and syncing
whenever connectivity comes back. Reloads the config file when it changes.
Send SIGHUP to force an immediate sync.`,
		RunE: newRun(ctx),
	}

	return cmd
}

func newRun(ctx context.SeeknoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if ctx.SessionKey == "" {
			return errors.New("not logged in")
		}

		store := notes.NewStore(ctx.DB, ctx.Clock)
		remote := sync.NewRemote(ctx)
		coordinator := sync.NewCoordinator(store, remote, ctx.DB, ctx.Clock, func() string {
			return ctx.UserID
		})

		monitor := connectivity.NewMonitor(coordinator.SetOnline, coordinator.SyncOnReconnect)

		probe, err := connectivity.DialProbe(ctx.APIEndpoint)
		if err != nil {
			return errors.Wrap(err, "setting up the connectivity probe")
		}

		poller := connectivity.NewPoller(monitor, probe, ctx.PollInterval)
		poller.Start()
		defer poller.Stop()

		coordinator.SyncOnAppStart()

		configWatcher, err := watchConfig(ctx, remote)
		if err != nil {
			return errors.Wrap(err, "watching the config file")
		}
		defer configWatcher.Close()

		log.Infof("watching for changes (probe interval %s)\n", ctx.PollInterval)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

		for s := range sig {
			if s == syscall.SIGHUP {
				log.Debug("received SIGHUP\n")
				coordinator.RequestSync("signal")
				continue
			}

			break
		}

		log.Infof("shutting down\n")
		coordinator.Wait()

		return nil
	}
}

// watchConfig reloads the api endpoint into the remote when the config file
// changes, so a long-running watch does not need a restart after
// reconfiguration.
func watchConfig(ctx context.SeeknoteCtx, remote *sync.ServerRemote) (*watcher.Watcher, error) {
	w := watcher.New()
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write, watcher.Create)

	if err := w.Add(config.GetPath(ctx)); err != nil {
		return nil, errors.Wrap(err, "adding the config file")
	}

	go func() {
		for {
			select {
			case <-w.Event:
				cf, err := config.Read(ctx)
				if err != nil {
					log.Error(errors.Wrap(err, "reloading config").Error())
					continue
				}

				log.Infof("config reloaded\n")
				remote.SetEndpoint(cf.APIEndpoint)
			case err, ok := <-w.Error:
				if !ok {
					return
				}
				log.Error(errors.Wrap(err, "watching config").Error())
			case <-w.Closed:
				return
			}
		}
	}()

	go func() {
		if err := w.Start(time.Second); err != nil {
			log.Error(errors.Wrap(err, "starting the config watcher").Error())
		}
	}()

	return w, nil
}
