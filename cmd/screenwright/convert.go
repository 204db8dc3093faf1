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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"screenwright/internal/config"
	"screenwright/internal/export"
	"screenwright/internal/finaldraft"
	"screenwright/internal/fountain"
	applog "screenwright/internal/log"
	"screenwright/internal/pdfimport"
	"screenwright/internal/script"
	"screenwright/internal/storage"
)

// format is a sniffed document format.
type format string

const (
	formatNative   format = "screenplay"
	formatFountain format = "fountain"
	formatFDX      format = "fdx"
	formatPDF      format = "pdf"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert a screenplay between formats",
	Long: `Convert reads the input, builds the shared element model, and writes it in
the output format. Both formats are sniffed from the file extensions.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd.Context(), args[0], args[1], cfg)
	},
}

func runConvert(ctx context.Context, in, out string, cfg config.AppConfig) error {
	l := applog.WithOperation(applog.WithComponent("cli"), "convert")
	s, err := readScript(ctx, in, cfg)
	if err != nil {
		return err
	}
	if err := writeScript(ctx, out, s, cfg); err != nil {
		return err
	}
	l.Info("converted",
		slog.String("in", in),
		slog.String("out", out),
		slog.Int("elements", len(s.Elements)),
		slog.Int("scenes", script.SceneCount(s.Elements)),
	)
	return nil
}

// sniffFormat maps a file extension to a document format.
func sniffFormat(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case storage.DocumentExt:
		return formatNative, nil
	case ".fountain":
		return formatFountain, nil
	case ".fdx":
		return formatFDX, nil
	case ".pdf":
		return formatPDF, nil
	}
	return "", fmt.Errorf("unsupported file extension %q (want %s, .fountain, .fdx or .pdf)",
		filepath.Ext(path), storage.DocumentExt)
}

func readScript(ctx context.Context, path string, cfg config.AppConfig) (script.Script, error) {
	f, err := sniffFormat(path)
	if err != nil {
		return script.Script{}, err
	}
	switch f {
	case formatNative:
		dh, err := storage.Open(path)
		if err != nil {
			return script.Script{}, err
		}
		return dh.Document.Script(), nil
	case formatFountain:
		data, err := os.ReadFile(path)
		if err != nil {
			return script.Script{}, err
		}
		return fountain.Import(string(data)), nil
	case formatFDX:
		data, err := os.ReadFile(path)
		if err != nil {
			return script.Script{}, err
		}
		elements, err := finaldraft.Import(data, finaldraft.ImportOptions{
			SkipFirstScenes: cfg.Import.SkipFirstScenes,
			StopAfterScenes: cfg.Import.StopAfterScenes,
		})
		if err != nil {
			return script.Script{}, err
		}
		return script.Script{Elements: elements}, nil
	case formatPDF:
		elements, err := pdfimport.ImportFile(ctx, path)
		if err != nil {
			return script.Script{}, err
		}
		return script.Script{Elements: elements}, nil
	}
	return script.Script{}, fmt.Errorf("unhandled input format %q", f)
}

func writeScript(ctx context.Context, path string, s script.Script, cfg config.AppConfig) error {
	f, err := sniffFormat(path)
	if err != nil {
		return err
	}
	switch f {
	case formatNative:
		dh := &storage.DocumentHandle{Path: path, Document: storage.FromScript(s)}
		if err := storage.Save(dh); err != nil {
			return err
		}
		// The index is derived; a failed rebuild must not fail the save.
		if err := storage.RebuildIndex(ctx, filepath.Dir(path), s.Elements); err != nil {
			applog.WithComponent("cli").Warn("index rebuild failed", slog.Any("err", err))
		}
		return nil
	case formatFountain:
		return os.WriteFile(path, []byte(fountain.Export(s)), 0o644)
	case formatFDX:
		data, err := finaldraft.Export(s.Elements)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	case formatPDF:
		out, err := os.Create(path)
		if err != nil {
			return err
		}
		werr := export.WritePDF(out, s, export.PDFOptions{
			SkipTitlePage:        cfg.Export.SkipTitlePage,
			IncludeSceneNumbers:  cfg.Export.IncludeSceneNumbers,
			Watermark:            cfg.Export.Watermark,
			WatermarkSize:        float64(cfg.Export.WatermarkSize),
			WatermarkOrientation: cfg.Export.WatermarkOrientation,
		})
		if cerr := out.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			_ = os.Remove(path)
		}
		return werr
	}
	return fmt.Errorf("unhandled output format %q", f)
}
