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

// Package sim implements a discrete-event simulator of a
// transaction-verification queueing network: Poisson arrival streams feed a
// bounded admission buffer and a pool of processing servers, with egress
// dispatch packetized by source priority. The package exposes a kernel
// (Simulation) plus accessor types for steady-state statistics; terminal
// rendering, configuration file formats, and result persistence are external
// concerns left to callers (see cmd/txsim and the internal/ packages).
package sim

import "fmt"

// Transaction is an immutable record of a single transaction-verification
// request. Once created it is never mutated; it is passed by value through
// the buffer, servers, events, and statistics.
type Transaction struct {
	ID        string
	SourceID  string
	Timestamp float64
	Amount    float64
}

// Source models a Poisson arrival stream. GeneratedCount is a monotone
// counter used to mint transaction ids of the form "<source_id>_<n>".
type Source struct {
	SourceID       string
	Priority       int
	Lambda         float64
	GeneratedCount uint64
}

// generate mints a new Transaction at currentTime and advances the source's
// counter. Amount is fixed at a nominal value; the kernel never inspects it.
func (s *Source) generate(currentTime float64) Transaction {
	s.GeneratedCount++
	return Transaction{
		ID:        fmt.Sprintf("%s_%d", s.SourceID, s.GeneratedCount),
		SourceID:  s.SourceID,
		Timestamp: currentTime,
		Amount:    100.0,
	}
}

// Server models a single processing unit with a uniform service-time
// distribution in [MinTime, MaxTime]. Busy and Current must agree: Busy is
// true if and only if Current is non-nil.
type Server struct {
	ServerID string
	MinTime  float64
	MaxTime  float64
	Busy     bool
	Current  *Transaction
}

func (s *Server) isFree() bool {
	return !s.Busy
}

// start marks the server busy with txn and returns the scheduled service end
// time, drawn from the server's uniform service-time distribution.
func (s *Server) start(txn Transaction, currentTime float64, g *rng) float64 {
	s.Busy = true
	s.Current = &txn
	return currentTime + g.uniform(s.MinTime, s.MaxTime)
}

// free clears the server's in-service transaction, returning it.
func (s *Server) free() *Transaction {
	txn := s.Current
	s.Busy = false
	s.Current = nil
	return txn
}
