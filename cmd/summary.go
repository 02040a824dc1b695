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
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/silogen/playbook-pulse/pkg/progress"
	"github.com/silogen/playbook-pulse/pkg/report"
	"github.com/silogen/playbook-pulse/pkg/stream"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <output-file>",
	Short: "Parse a completed run's output and print the per-host recap",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		hosts := seededHosts()
		if len(hosts) == 0 {
			log.Fatal("HOSTS must list at least one host identifier")
		}

		file, err := os.Open(args[0])
		if err != nil {
			log.Fatalf("Cannot open %s: %v", args[0], err)
		}
		defer file.Close()

		prog := progress.New(hosts)
		pump := &stream.Pump{Progress: prog}
		if err := pump.Run(file); err != nil {
			log.Fatalf("Reading %s failed: %v", args[0], err)
		}

		finishRun(prog.Snapshot())
	},
}

func init() {
	summaryCmd.Flags().String("archive", "", "write the YAML run archive to this path (overrides ARCHIVE_PATH)")
	viper.BindPFlag("ARCHIVE_PATH", summaryCmd.Flags().Lookup("archive"))
}

// finishRun prints the final table and writes the run archive. Shared by
// watch and summary once their input is exhausted.
func finishRun(snap progress.Snapshot) {
	fmt.Println()
	fmt.Print(report.RenderTable(snap))

	stats := report.Collect(snap)
	fmt.Printf("\nRun of play %q, %d tasks: %s\n", snap.CurrentPlay, snap.TaskIndex, stats.Summary())
	if !snap.Finished {
		fmt.Println("Note: no recap seen, totals are live tallies only")
	}

	for _, w := range snap.Warnings {
		log.Warnf("ansible: %s", w)
	}

	if path := viper.GetString("ARCHIVE_PATH"); path != "" && snap.Finished {
		archive := report.Build(snap, time.Now())
		if err := archive.WriteFile(path); err != nil {
			log.Warnf("Could not write run archive: %v", err)
		} else {
			log.Infof("Run archive written to %s", path)
		}
	}

	if stats.HasFailures() {
		os.Exit(1)
	}
}
