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

import "testing"

func validConfig() Config {
	return Config{
		SimulationTime: 10,
		BufferCapacity: 5,
		Sources:        []SourceConfig{{ID: "s1", Priority: 1, Lambda: 1}},
		Servers:        []ServerConfig{{ID: "srv1", MinTime: 0.1, MaxTime: 0.2}},
	}
}

func TestConfig_ValidAccepted(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config to pass, got %v", err)
	}
}

func TestConfig_ZeroSimulationTimeAccepted(t *testing.T) {
	c := validConfig()
	c.SimulationTime = 0
	if err := c.Validate(); err != nil {
		t.Fatalf("simulation_time=0 must be a valid boundary scenario, got %v", err)
	}
}

func TestConfig_NegativeSimulationTimeRejected(t *testing.T) {
	c := validConfig()
	c.SimulationTime = -1
	if err := c.Validate(); err == nil {
		t.Fatal("expected negative simulation_time to be rejected")
	}
}

func TestConfig_ZeroLambdaAccepted(t *testing.T) {
	c := validConfig()
	c.Sources[0].Lambda = 0
	if err := c.Validate(); err != nil {
		t.Fatalf("lambda=0 must be a valid boundary scenario, got %v", err)
	}
}

func TestConfig_NegativeLambdaRejected(t *testing.T) {
	c := validConfig()
	c.Sources[0].Lambda = -0.5
	if err := c.Validate(); err == nil {
		t.Fatal("expected negative lambda to be rejected")
	}
}

func TestConfig_EmptySourcesRejected(t *testing.T) {
	c := validConfig()
	c.Sources = nil
	if err := c.Validate(); err == nil {
		t.Fatal("expected empty sources to be rejected")
	}
}

func TestConfig_EmptyServersRejected(t *testing.T) {
	c := validConfig()
	c.Servers = nil
	if err := c.Validate(); err == nil {
		t.Fatal("expected empty servers to be rejected")
	}
}

func TestConfig_DuplicateSourceIDRejected(t *testing.T) {
	c := validConfig()
	c.Sources = append(c.Sources, SourceConfig{ID: "s1", Lambda: 1})
	if err := c.Validate(); err == nil {
		t.Fatal("expected duplicate source id to be rejected")
	}
}

func TestConfig_MinTimeExceedsMaxTimeRejected(t *testing.T) {
	c := validConfig()
	c.Servers[0].MinTime = 5
	c.Servers[0].MaxTime = 1
	if err := c.Validate(); err == nil {
		t.Fatal("expected min_time > max_time to be rejected")
	}
}
