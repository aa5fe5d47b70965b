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
	"os"
	"testing"
)

func TestEnvOverridesTelemetry(t *testing.T) {
	old := os.Getenv(EnvTelemetryOptIn)
	_ = os.Setenv(EnvTelemetryOptIn, "true")
	t.Cleanup(func() { _ = os.Setenv(EnvTelemetryOptIn, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("General.TelemetryOptIn expected true from env override")
	}
}

func TestEnvOverridesKeepRevisions(t *testing.T) {
	old := os.Getenv(EnvKeepRevisions)
	_ = os.Setenv(EnvKeepRevisions, "25")
	t.Cleanup(func() { _ = os.Setenv(EnvKeepRevisions, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.History.KeepRevisions, 25; got != want {
		t.Fatalf("History.KeepRevisions = %d, want %d", got, want)
	}
}

func TestEnvIgnoresInvalidKeepRevisions(t *testing.T) {
	old := os.Getenv(EnvKeepRevisions)
	_ = os.Setenv(EnvKeepRevisions, "-3")
	t.Cleanup(func() { _ = os.Setenv(EnvKeepRevisions, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.History.KeepRevisions, Defaults().History.KeepRevisions; got != want {
		t.Fatalf("History.KeepRevisions = %d, want default %d", got, want)
	}
}

func TestMergeIncludesHistory(t *testing.T) {
	// Given a file config that sets history fields, mergeInto should carry them through
	dst := Defaults()
	src := Defaults()
	src.History.KeepRevisions = 7
	src.History.Autosave = false
	mergeInto(&dst, &src)
	if dst.History.KeepRevisions != 7 || dst.History.Autosave {
		t.Fatalf("history fields not merged correctly: %#v", dst.History)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/swr.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/swr.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	oldLevel := os.Getenv(EnvLogLevel)
	oldFmt := os.Getenv(EnvLogFormat)
	oldSrc := os.Getenv(EnvLogSource)
	oldFile := os.Getenv(EnvLogFile)
	_ = os.Setenv(EnvLogLevel, "error")
	_ = os.Setenv(EnvLogFormat, "json")
	_ = os.Setenv(EnvLogSource, "1")
	_ = os.Setenv(EnvLogFile, "X:/swr.log")
	t.Cleanup(func() {
		_ = os.Setenv(EnvLogLevel, oldLevel)
		_ = os.Setenv(EnvLogFormat, oldFmt)
		_ = os.Setenv(EnvLogSource, oldSrc)
		_ = os.Setenv(EnvLogFile, oldFile)
	})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/swr.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestEnvOverrideForReportsSource(t *testing.T) {
	old := os.Getenv(EnvArcReference)
	_ = os.Setenv(EnvArcReference, "/tmp/arc.yaml")
	t.Cleanup(func() { _ = os.Setenv(EnvArcReference, old) })
	name, ok := EnvOverrideFor("analysis.arc_reference")
	if !ok || name != EnvArcReference {
		t.Fatalf("EnvOverrideFor = %q ok=%v", name, ok)
	}
	if _, ok := EnvOverrideFor("history.autosave"); ok && os.Getenv(EnvAutosave) == "" {
		t.Fatalf("EnvOverrideFor reported an override with no env set")
	}
}
