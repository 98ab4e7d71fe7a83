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

package sim

import "fmt"

// SourceConfig describes one Poisson arrival stream.
type SourceConfig struct {
	ID       string
	Priority int
	Lambda   float64
}

// ServerConfig describes one processing server's uniform service-time
// bounds.
type ServerConfig struct {
	ID      string
	MinTime float64
	MaxTime float64
}

// Config is the recognized shape of the external configuration document.
// Loading it from JSON/YAML/TOML is an external concern (see
// internal/config); the kernel only ever consumes an already-parsed value.
type Config struct {
	SimulationTime float64
	BufferCapacity int
	Sources        []SourceConfig
	Servers        []ServerConfig
}

// Validate checks the invariants construction depends on, returning a
// descriptive error on the first violation found.
//
// Two fields are accepted at their boundary value: SimulationTime == 0
// and Lambda == 0 both denote valid degenerate scenarios ("end time = 0"
// and "lambda = 0 interpreted as infinite wait"), so rejecting them here
// would make those scenarios impossible to construct. Only strictly
// negative values are treated as invalid configuration. See DESIGN.md
// for the full reasoning.
func (c Config) Validate() error {
	if c.SimulationTime < 0 {
		return fmt.Errorf("sim: simulation_time must be non-negative, got %v", c.SimulationTime)
	}
	if c.BufferCapacity < 0 {
		return fmt.Errorf("sim: buffer_capacity must be non-negative, got %d", c.BufferCapacity)
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("sim: at least one source is required")
	}
	if len(c.Servers) == 0 {
		return fmt.Errorf("sim: at least one server is required")
	}
	seenSource := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		if s.ID == "" {
			return fmt.Errorf("sim: source id must not be empty")
		}
		if seenSource[s.ID] {
			return fmt.Errorf("sim: duplicate source id %q", s.ID)
		}
		seenSource[s.ID] = true
		if s.Lambda < 0 {
			return fmt.Errorf("sim: source %q lambda must be non-negative, got %v", s.ID, s.Lambda)
		}
	}
	seenServer := make(map[string]bool, len(c.Servers))
	for _, s := range c.Servers {
		if s.ID == "" {
			return fmt.Errorf("sim: server id must not be empty")
		}
		if seenServer[s.ID] {
			return fmt.Errorf("sim: duplicate server id %q", s.ID)
		}
		seenServer[s.ID] = true
		if s.MinTime > s.MaxTime {
			return fmt.Errorf("sim: server %q min_time %v exceeds max_time %v", s.ID, s.MinTime, s.MaxTime)
		}
		if s.MinTime < 0 {
			return fmt.Errorf("sim: server %q min_time must be non-negative, got %v", s.ID, s.MinTime)
		}
	}
	return nil
}
