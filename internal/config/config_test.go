// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleJSON = `{
  "simulation_time": 100,
  "buffer_capacity": 5,
  "sources": [
    {"id": "s1", "priority": 1, "lambda": 0.5}
  ],
  "servers": [
    {"id": "srv1", "min_time": 0.2, "max_time": 0.4}
  ]
}`

const sampleYAML = `
simulation_time: 100
buffer_capacity: 5
sources:
  - id: s1
    priority: 1
    lambda: 0.5
servers:
  - id: srv1
    min_time: 0.2
    max_time: 0.4
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeTemp(t, "scenario.json", sampleJSON)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SimulationTime != 100 || cfg.BufferCapacity != 5 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].ID != "s1" || cfg.Sources[0].Lambda != 0.5 {
		t.Fatalf("unexpected sources: %+v", cfg.Sources)
	}
	if len(cfg.Servers) != 1 || cfg.Servers[0].ID != "srv1" {
		t.Fatalf("unexpected servers: %+v", cfg.Servers)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeTemp(t, "scenario.yaml", sampleYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SimulationTime != 100 {
		t.Fatalf("unexpected simulation_time: %v", cfg.SimulationTime)
	}
}

func TestLoad_InvalidConfigFailsValidation(t *testing.T) {
	path := writeTemp(t, "bad.json", `{"simulation_time": -1, "buffer_capacity": 5, "sources": [], "servers": []}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected Load to surface a validation error for negative simulation_time")
	}
}

func TestLoad_MissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
