/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("logging defaults wrong: %+v", cfg.Logging)
	}
	if !cfg.Export.IncludeSceneNumbers {
		t.Fatal("scene numbers should default to on")
	}
	if cfg.Export.WatermarkSize != 72 || cfg.Export.WatermarkOrientation != "45" {
		t.Fatalf("watermark defaults wrong: %+v", cfg.Export)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvSkipTitlePage, "true")
	t.Setenv(EnvWatermark, "DRAFT")
	t.Setenv(EnvStopAfterScenes, "3")

	cfg := Defaults()
	applyEnvOverrides(&cfg)
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level = %q, want debug", cfg.Logging.Level)
	}
	if !cfg.Export.SkipTitlePage {
		t.Fatal("SWR_SKIP_TITLE_PAGE not applied")
	}
	if cfg.Export.Watermark != "DRAFT" {
		t.Fatalf("watermark = %q", cfg.Export.Watermark)
	}
	if cfg.Import.StopAfterScenes != 3 {
		t.Fatalf("stop after scenes = %d", cfg.Import.StopAfterScenes)
	}
}

func TestMergeIntoKeepsDefaultsForEmptyFields(t *testing.T) {
	dst := Defaults()
	var src fileConfig
	src.Export.Watermark = "CONFIDENTIAL"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "info" {
		t.Fatalf("empty file level clobbered default: %q", dst.Logging.Level)
	}
	if dst.Export.Watermark != "CONFIDENTIAL" {
		t.Fatalf("file watermark not merged: %q", dst.Export.Watermark)
	}
	if dst.Export.WatermarkSize != 72 {
		t.Fatalf("zero file size clobbered default: %d", dst.Export.WatermarkSize)
	}
}

func TestMergeIntoOmittedBooleanKeepsDefault(t *testing.T) {
	// A file that never mentions include_scene_numbers must not flip the
	// default; an explicit false must.
	dst := Defaults()
	var src fileConfig
	if err := yaml.Unmarshal([]byte("export:\n  watermark: DRAFT\n"), &src); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	mergeInto(&dst, &src)
	if !dst.Export.IncludeSceneNumbers {
		t.Fatal("omitted include_scene_numbers flipped the default off")
	}

	dst = Defaults()
	src = fileConfig{}
	if err := yaml.Unmarshal([]byte("export:\n  include_scene_numbers: false\n"), &src); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	mergeInto(&dst, &src)
	if dst.Export.IncludeSceneNumbers {
		t.Fatal("explicit include_scene_numbers: false was ignored")
	}
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "on", "YES"} {
		if !isTruthy(v) {
			t.Fatalf("%q should be truthy", v)
		}
	}
	for _, v := range []string{"0", "false", "off", ""} {
		if isTruthy(v) {
			t.Fatalf("%q should be falsy", v)
		}
	}
}
