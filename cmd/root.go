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
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Playbook Pulse tracks ansible-playbook runs host by host",
	Long: `
Playbook Pulse follows the default human-readable output of an
ansible-playbook run and turns it into live per-host status: task counters,
current state, failure messages and the final recap. It never launches
Ansible itself; point it at the output file of a run started elsewhere.

Available Configuration Variables:
  - HOSTS: Comma-separated host identifiers exactly as Ansible prints them (required).
  - WEB_PORT: Port for the JSON status endpoint, 0 disables it (default: 0).
  - ARCHIVE_PATH: Where to write the YAML run archive (default: "run-archive.yaml").
  - REFRESH_LOG: Set to true to log every refresh-worthy line (default: false).

Usage:
  Use the --config flag to specify a configuration file, or set the above
  variables in the environment or a Viper-compatible config file.
`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

var cfgFile string

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./pulse.yaml)")
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(hostsCmd)
}

func initConfig() {
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			log.Fatalf("Config file does not exist: %s", cfgFile)
		}
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("pulse")
	}

	viper.SetDefault("HOSTS", "")
	viper.SetDefault("WEB_PORT", 0)
	viper.SetDefault("ARCHIVE_PATH", "run-archive.yaml")
	viper.SetDefault("REFRESH_LOG", false)

	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		log.Infof("Using config file: %s", viper.ConfigFileUsed())
	}

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	currentDir, err := os.Getwd()
	if err != nil {
		log.Warnf("Could not determine current directory: %v", err)
		return
	}

	logPath := filepath.Join(currentDir, "pulse.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Warnf("Could not open log file: %v", err)
		return
	}
	log.SetOutput(logFile)
	logConfigValues()
}

func logConfigValues() {
	log.Info("Configuration values:")
	for _, key := range viper.AllKeys() {
		log.Infof("%s: %v", key, viper.Get(key))
	}
}

// seededHosts resolves the HOSTS list from configuration. Entries must
// match Ansible's printed tokens exactly; this is deliberately not an
// inventory parser.
func seededHosts() []string {
	return splitHosts(viper.GetString("HOSTS"))
}

func splitHosts(raw string) []string {
	var hosts []string
	for _, h := range strings.Split(raw, ",") {
		h = strings.TrimSpace(h)
		if h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
