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
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the
// user scope. Environment variables are treated as read-only overrides at
// runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// ExportConfig holds defaults for the screenplay PDF writer.
type ExportConfig struct {
	SkipTitlePage        bool   `yaml:"skip_title_page"`
	IncludeSceneNumbers  bool   `yaml:"include_scene_numbers"`
	Watermark            string `yaml:"watermark"`
	WatermarkSize        int    `yaml:"watermark_size"`
	WatermarkOrientation string `yaml:"watermark_orientation"` // "horizontal" | "45" | "vertical"
}

// ImportConfig carries debug truncation knobs for the Final Draft importer.
// Zero means disabled.
type ImportConfig struct {
	SkipFirstScenes int `yaml:"skip_first_scenes"`
	StopAfterScenes int `yaml:"stop_after_scenes"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Logging       LoggingConfig `yaml:"logging"`
	Export        ExportConfig  `yaml:"export"`
	Import        ImportConfig  `yaml:"import"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Logging:       LoggingConfig{Level: "info", Format: "console"},
		Export:        ExportConfig{IncludeSceneNumbers: true, WatermarkSize: 72, WatermarkOrientation: "45"},
	}
}

// Env var names used as overrides.
const (
	EnvLogLevel        = "SWR_LOG_LEVEL"
	EnvLogFormat       = "SWR_LOG_FORMAT"
	EnvLogSource       = "SWR_LOG_SOURCE"
	EnvLogFile         = "SWR_LOG_FILE"
	EnvSkipTitlePage   = "SWR_SKIP_TITLE_PAGE"
	EnvSceneNumbers    = "SWR_SCENE_NUMBERS"
	EnvWatermark       = "SWR_WATERMARK"
	EnvSkipFirstScenes = "SWR_SKIP_FIRST_SCENES"
	EnvStopAfterScenes = "SWR_STOP_AFTER_SCENES"
)

// Path returns the per-user config file path.
func Path() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Screenwright")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Screenwright")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "screenwright")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// fileConfig mirrors AppConfig for parsing the user file. Booleans are
// pointers so an omitted key is distinguishable from an explicit false and
// cannot silently flip a default.
type fileConfig struct {
	ConfigVersion int `yaml:"config_version"`
	Logging       struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Source *bool  `yaml:"source"`
		File   string `yaml:"file"`
	} `yaml:"logging"`
	Export struct {
		SkipTitlePage        *bool  `yaml:"skip_title_page"`
		IncludeSceneNumbers  *bool  `yaml:"include_scene_numbers"`
		Watermark            string `yaml:"watermark"`
		WatermarkSize        int    `yaml:"watermark_size"`
		WatermarkOrientation string `yaml:"watermark_orientation"`
	} `yaml:"export"`
	Import ImportConfig `yaml:"import"`
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg fileConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *fileConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	if src.Logging.Source != nil {
		dst.Logging.Source = *src.Logging.Source
	}
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	// booleans override only when the key is present in the file
	if src.Export.SkipTitlePage != nil {
		dst.Export.SkipTitlePage = *src.Export.SkipTitlePage
	}
	if src.Export.IncludeSceneNumbers != nil {
		dst.Export.IncludeSceneNumbers = *src.Export.IncludeSceneNumbers
	}
	if src.Export.Watermark != "" {
		dst.Export.Watermark = src.Export.Watermark
	}
	if src.Export.WatermarkSize != 0 {
		dst.Export.WatermarkSize = src.Export.WatermarkSize
	}
	if src.Export.WatermarkOrientation != "" {
		dst.Export.WatermarkOrientation = src.Export.WatermarkOrientation
	}
	if src.Import.SkipFirstScenes != 0 {
		dst.Import.SkipFirstScenes = src.Import.SkipFirstScenes
	}
	if src.Import.StopAfterScenes != 0 {
		dst.Import.StopAfterScenes = src.Import.StopAfterScenes
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSkipTitlePage)); v != "" {
		cfg.Export.SkipTitlePage = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvSceneNumbers)); v != "" {
		cfg.Export.IncludeSceneNumbers = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvWatermark)); v != "" {
		cfg.Export.Watermark = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSkipFirstScenes)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Import.SkipFirstScenes = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvStopAfterScenes)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Import.StopAfterScenes = n
		}
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
