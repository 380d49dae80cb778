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

package connectivity

import (
	"net"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const probeTimeout = 3 * time.Second

// Probe reports whether the host behind the given endpoint currently
// accepts connections.
type Probe func() bool

// DialProbe returns a probe that attempts a TCP connection to the host of
// the given endpoint URL.
func DialProbe(endpoint string) (Probe, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "parsing endpoint")
	}

	host := u.Host
	if u.Port() == "" {
		switch u.Scheme {
		case "https":
			host = net.JoinHostPort(u.Hostname(), "443")
		default:
			host = net.JoinHostPort(u.Hostname(), "80")
		}
	}

	return func() bool {
		conn, err := net.DialTimeout("tcp", host, probeTimeout)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, nil
}

// Poller feeds a monitor with periodic probe results.
type Poller struct {
	monitor  *Monitor
	probe    Probe
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewPoller returns a poller that runs the probe on the given interval and
// reports each result to the monitor.
func NewPoller(m *Monitor, probe Probe, interval time.Duration) *Poller {
	return &Poller{
		monitor:  m,
		probe:    probe,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start probes once immediately and then on every tick until Stop is called.
func (p *Poller) Start() {
	go func() {
		defer close(p.done)

		p.monitor.Update(p.probe())

		t := time.NewTicker(p.interval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				p.monitor.Update(p.probe())
			case <-p.stop:
				return
			}
		}
	}()
}

// Stop terminates the poller and waits for the polling loop to exit.
func (p *Poller) Stop() {
	close(p.stop)
	<-p.done
}
