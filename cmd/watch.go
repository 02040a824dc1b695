/**
 * Copyright 2025 Advanced Micro Devices, Inc.  All rights reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
**/

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/silogen/playbook-pulse/pkg/progress"
	"github.com/silogen/playbook-pulse/pkg/stream"
	"github.com/silogen/playbook-pulse/pkg/webmonitor"
)

var watchCmd = &cobra.Command{
	Use:   "watch <output-file>",
	Short: "Follow a live run's output file and track per-host status",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		hosts := seededHosts()
		if len(hosts) == 0 {
			log.Fatal("HOSTS must list at least one host identifier")
		}

		prog := progress.New(hosts)
		monitor := webmonitor.NewMonitor()
		monitor.Update(prog.Snapshot())

		if port := viper.GetInt("WEB_PORT"); port > 0 {
			server := webmonitor.NewServer(port, monitor)
			go func() {
				if err := server.Start(); err != nil {
					log.Warnf("Status endpoint stopped: %v", err)
				}
			}()
		}

		refreshLog := viper.GetBool("REFRESH_LOG")
		pump := &stream.Pump{
			Progress: prog,
			OnRefresh: func(snap progress.Snapshot) {
				monitor.Update(snap)
				if refreshLog {
					log.Debugf("refresh: play=%q task=%d %q", snap.CurrentPlay, snap.TaskIndex, snap.CurrentTask)
				}
			},
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		follower := &stream.Follower{Path: args[0], Pump: pump}
		if err := follower.Run(ctx); err != nil && err != context.Canceled {
			log.Fatalf("Following %s failed: %v", args[0], err)
		}

		finishRun(prog.Snapshot())
	},
}
