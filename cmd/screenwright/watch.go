/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	applog "screenwright/internal/log"
	"screenwright/internal/paginate"
)

var watchCmd = &cobra.Command{
	Use:   "watch <input> <output>",
	Short: "Reconvert whenever the input changes",
	Long: `Watch converts once, then keeps watching the input file and reconverts on
every change. Editor save bursts are debounced. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd.Context(), args[0], args[1])
	},
}

func runWatch(parent context.Context, in, out string) error {
	l := applog.WithOperation(applog.WithComponent("cli"), "watch").With(
		slog.String("in", in),
		slog.String("out", out),
	)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runConvert(ctx, in, out, cfg); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// Watch the directory, not the file: editors replace files via rename,
	// which drops a watch held on the file itself.
	if err := watcher.Add(filepath.Dir(in)); err != nil {
		return err
	}

	sched := paginate.NewScheduler()
	defer sched.Stop()

	target, err := filepath.Abs(in)
	if err != nil {
		return err
	}

	l.Info("watching")
	for {
		select {
		case <-ctx.Done():
			l.Info("stopped")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			p, err := filepath.Abs(ev.Name)
			if err != nil || p != target {
				continue
			}
			sched.Schedule(func() {
				if err := runConvert(ctx, in, out, cfg); err != nil {
					l.Error("reconvert failed", slog.Any("err", err))
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.Warn("watch error", slog.Any("err", err))
		}
	}
}
