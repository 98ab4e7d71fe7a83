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

func TestRunAutomated_AdvancesTimeAndGeneratesTransactions(t *testing.T) {
	cfg := oneSourceOneServerConfig(3, 0.3, 0.5, 5, 2000)
	s, err := New(cfg, false, WithSeed(11))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.RunAutomated(0.1, 0.9)

	if s.CurrentTime() == 0 {
		t.Fatal("expected the automated controller to have advanced time")
	}
	if s.TotalTransactions() == 0 {
		t.Fatal("expected the automated run to generate transactions")
	}
}

func TestRunAutomated_SetsRunningThenDrains(t *testing.T) {
	cfg := oneSourceOneServerConfig(5, 0.2, 0.4, 5, 500)
	s, err := New(cfg, false, WithSeed(21))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.RunAutomated(0.1, 0.9)

	if s.Running() {
		t.Error("expected RunAutomated to leave running=false after draining the calendar")
	}
	for _, e := range s.cal.events {
		if e.time < cfg.SimulationTime {
			t.Errorf("expected the calendar to be drained up to END, an event at %v < %v remains", e.time, cfg.SimulationTime)
		}
	}
}

func TestAbsFloat(t *testing.T) {
	if absFloat(-3.5) != 3.5 {
		t.Errorf("absFloat(-3.5) = %v, want 3.5", absFloat(-3.5))
	}
	if absFloat(3.5) != 3.5 {
		t.Errorf("absFloat(3.5) = %v, want 3.5", absFloat(3.5))
	}
}
