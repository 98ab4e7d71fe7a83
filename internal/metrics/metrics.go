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

// Package metrics exposes the simulator's steady-state estimates as
// Prometheus gauges/counters/histograms. It is host-driven, not
// kernel-driven: the CLI calls Observe after each RunStep from a
// sim.Observer hook, so the core kernel package never imports Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	transactionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "txsim_transactions_total",
		Help: "Total transactions generated across all sources.",
	})
	rejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "txsim_rejected_total",
		Help: "Total transactions rejected due to a full buffer.",
	})
	rejectionRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "txsim_rejection_rate",
		Help: "Current rejected/total ratio.",
	})
	bufferSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "txsim_buffer_size",
		Help: "Current number of transactions waiting in the admission buffer.",
	})
	serverBusy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "txsim_server_busy",
		Help: "1 if the server is currently processing a transaction, else 0.",
	}, []string{"server"})
	serverUtilization = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "txsim_server_utilization",
		Help: "busy_time / elapsed virtual time for the server.",
	}, []string{"server"})
	packetSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "txsim_packet_size",
		Help:    "Distribution of egress packet sizes formed by the dispatcher.",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
	})
)

// Register adds every metric to reg. Call once per process; a nil reg
// registers against the default Prometheus registry.
func Register(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(transactionsTotal, rejectedTotal, rejectionRate, bufferSize, serverBusy, serverUtilization, packetSize)
}

// ServerSnapshot is the per-server data point Observe needs; it mirrors
// sim.ServerState plus the derived utilization a caller already computed
// from sim.ServerStatistics.
type ServerSnapshot struct {
	ID          string
	Busy        bool
	Utilization float64
}

// Snapshot is everything Observe needs from one simulation tick. Callers
// build it from sim.Simulation's exported accessors; this package never
// imports the sim package, keeping the dependency direction one-way.
type Snapshot struct {
	Total         int
	Rejected      int
	RejectionRate float64
	BufferSize    int
	Servers       []ServerSnapshot
}

// Observe pushes one snapshot's worth of derived statistics into the
// registered gauges/counters. totalDelta/rejectedDelta let the caller feed
// the monotone counters incrementally between successive snapshots.
func Observe(s Snapshot, totalDelta, rejectedDelta int) {
	if totalDelta > 0 {
		transactionsTotal.Add(float64(totalDelta))
	}
	if rejectedDelta > 0 {
		rejectedTotal.Add(float64(rejectedDelta))
	}
	rejectionRate.Set(s.RejectionRate)
	bufferSize.Set(float64(s.BufferSize))
	for _, srv := range s.Servers {
		b := 0.0
		if srv.Busy {
			b = 1.0
		}
		serverBusy.WithLabelValues(srv.ID).Set(b)
		serverUtilization.WithLabelValues(srv.ID).Set(srv.Utilization)
	}
}

// ObservePacket records one egress packet's size.
func ObservePacket(size int) {
	if size > 0 {
		packetSize.Observe(float64(size))
	}
}
