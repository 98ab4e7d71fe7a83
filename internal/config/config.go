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

// Package config loads a run configuration document for the simulator.
// This is deliberately outside the core kernel: the kernel only ever
// consumes an already-parsed, already-validated sim.Config.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	sim "txsim"
)

// rawSource mirrors one entry of the "sources" array in the configuration
// document.
type rawSource struct {
	ID       string  `mapstructure:"id"`
	Priority int     `mapstructure:"priority"`
	Lambda   float64 `mapstructure:"lambda"`
}

// rawServer mirrors one entry of the "servers" array.
type rawServer struct {
	ID      string  `mapstructure:"id"`
	MinTime float64 `mapstructure:"min_time"`
	MaxTime float64 `mapstructure:"max_time"`
}

// rawDocument is the recognized shape of the configuration document:
// simulation_time, buffer_capacity, sources[], servers[].
type rawDocument struct {
	SimulationTime float64     `mapstructure:"simulation_time"`
	BufferCapacity int         `mapstructure:"buffer_capacity"`
	Sources        []rawSource `mapstructure:"sources"`
	Servers        []rawServer `mapstructure:"servers"`
}

// Load reads and validates a run configuration from path. Viper sniffs
// the format from the file extension (.json, .yaml, .yml, .toml are all
// accepted); the kernel never inspects the source format.
func Load(path string) (sim.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return sim.Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var doc rawDocument
	if err := v.Unmarshal(&doc); err != nil {
		return sim.Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg := sim.Config{
		SimulationTime: doc.SimulationTime,
		BufferCapacity: doc.BufferCapacity,
	}
	for _, s := range doc.Sources {
		cfg.Sources = append(cfg.Sources, sim.SourceConfig{ID: s.ID, Priority: s.Priority, Lambda: s.Lambda})
	}
	for _, s := range doc.Servers {
		cfg.Servers = append(cfg.Servers, sim.ServerConfig{ID: s.ID, MinTime: s.MinTime, MaxTime: s.MaxTime})
	}

	if err := cfg.Validate(); err != nil {
		return sim.Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}
