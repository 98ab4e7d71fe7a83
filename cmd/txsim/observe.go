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

package main

import (
	"txsim/internal/metrics"

	sim "txsim"
)

// newMetricsObserver returns a sim.Observer that pushes one Prometheus
// snapshot per processed event and records each newly formed egress
// packet's size, so the histogram/gauges track the kernel step by step
// instead of once per RunAutomated call.
func newMetricsObserver() sim.Observer {
	var prevTotal, prevRejected int
	return func(s *sim.Simulation, newEvents []sim.EventRecord) {
		st := s.GetState()
		snap := metrics.Snapshot{
			Total:         st.Statistics.TotalTransactions,
			Rejected:      st.Statistics.RejectedTransactions,
			RejectionRate: st.Statistics.RejectionRate,
			BufferSize:    len(st.Buffer),
		}
		for _, srv := range st.Servers {
			ss := s.ServerStatistics(srv.ID, s.CurrentTime())
			snap.Servers = append(snap.Servers, metrics.ServerSnapshot{ID: srv.ID, Busy: srv.Busy, Utilization: ss.Utilization})
		}
		metrics.Observe(snap, snap.Total-prevTotal, snap.Rejected-prevRejected)
		prevTotal, prevRejected = snap.Total, snap.Rejected

		for _, e := range newEvents {
			if e.Kind == sim.EventPacketFormed {
				metrics.ObservePacket(e.PacketSize)
			}
		}
	}
}
