/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"github.com/spf13/cobra"

	"screenwright/internal/config"
	applog "screenwright/internal/log"
	"screenwright/internal/version"
)

var cfg config.AppConfig

var rootCmd = &cobra.Command{
	Use:   "screenwright",
	Short: "Screenplay document conversion between Fountain, Final Draft and PDF",
	Long: `Screenwright converts screenplay documents between formats through a
shared element model.

Supported formats (sniffed from the file extension):
  .screenplay  native document (JSON envelope)
  .fountain    Fountain plain text
  .fdx         Final Draft XML
  .pdf         input: structural reconstruction; output: print layout`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cfg, _ = config.Load()
		opts := applog.FromEnv()
		opts.Level = cfg.Logging.Level
		opts.Format = cfg.Logging.Format
		opts.AddSource = cfg.Logging.Source
		if cfg.Logging.File != "" {
			opts.File = cfg.Logging.File
		}
		applog.Init(opts)
	}

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}
