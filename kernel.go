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

// Simulation is the event-driven kernel: a priority-ordered event calendar,
// the admission and egress dispatchers, and the statistics collector. It is
// single-threaded and cooperative — RunStep is synchronous and
// run-to-completion; re-entering it from within a handler is a programmer
// error.
type Simulation struct {
	config Config

	currentTime float64
	running     bool
	verbose     bool

	cal *calendar
	g   *rng

	sources     []*Source
	sourceIndex map[string]*Source
	servers     []*Server
	serverIndex map[string]*Server

	buf   *buffer
	stats *Statistics

	dIn  *dispatcherIn
	dOut *dispatcherOut

	observer Observer

	inRunStep bool
}

// Observer is a per-step hook RunStep invokes after it has applied one
// event, passed the Simulation itself (for GetState/ServerStatistics/etc.)
// and the event records that step appended to the history. A host uses this
// to push steady-state estimates and packet-size samples to a metrics
// backend without the kernel importing one itself.
type Observer func(s *Simulation, newEvents []EventRecord)

// Option configures optional behavior of New.
type Option func(*simOptions)

type simOptions struct {
	seed     *int64
	observer Observer
}

// WithSeed pins the Simulation's PRNG to a deterministic seed, for
// reproducible scenarios. Without it the seed is nondeterministic.
func WithSeed(seed int64) Option {
	return func(o *simOptions) { o.seed = &seed }
}

// WithObserver registers a per-step hook; see Observer.
func WithObserver(obs Observer) Option {
	return func(o *simOptions) { o.observer = obs }
}

// New constructs a Simulation with its initial GENERATE events (one per
// source) and its terminal END event already scheduled. CurrentTime starts
// at 0 and Running starts false; call Start before stepping with RunStep,
// or call RunAutomated, to start processing. An invalid Config fails construction with a descriptive
// error that is never recovered.
func New(cfg Config, verbose bool, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := simOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Simulation{
		config:      cfg,
		verbose:     verbose,
		cal:         newCalendar(),
		g:           newRNG(o.seed),
		sourceIndex: make(map[string]*Source),
		serverIndex: make(map[string]*Server),
		buf:         newBuffer(cfg.BufferCapacity),
		stats:       newStatistics(),
		observer:    o.observer,
	}

	for _, sc := range cfg.Sources {
		src := &Source{SourceID: sc.ID, Priority: sc.Priority, Lambda: sc.Lambda}
		s.sources = append(s.sources, src)
		s.sourceIndex[src.SourceID] = src
	}
	for _, svc := range cfg.Servers {
		srv := &Server{ServerID: svc.ID, MinTime: svc.MinTime, MaxTime: svc.MaxTime}
		s.servers = append(s.servers, srv)
		s.serverIndex[srv.ServerID] = srv
	}

	s.dIn = &dispatcherIn{buffer: s.buf, servers: s.servers, stats: s.stats, g: s.g}
	s.dOut = &dispatcherOut{buffer: s.buf, stats: s.stats, g: s.g, sources: s.sourceIndex}

	s.scheduleInitialEvents()
	return s, nil
}

func (s *Simulation) scheduleInitialEvents() {
	for _, src := range s.sources {
		delay := s.g.exponential(src.Lambda)
		s.cal.push(&calEvent{typ: eventGenerate, time: s.currentTime + delay, sourceID: src.SourceID})
	}
	s.cal.push(&calEvent{typ: eventEnd, time: s.config.SimulationTime})
}

// Start arms the simulation so RunStep will begin consuming the calendar.
// New leaves Running false; single-step hosts call Start once before
// their first RunStep. RunAutomated calls this itself.
func (s *Simulation) Start() { s.running = true }

// Running reports whether the kernel will still process RunStep calls.
func (s *Simulation) Running() bool { return s.running }

// Stop lets a host halt the kernel cleanly between steps without waiting
// for the END event.
func (s *Simulation) Stop() { s.running = false }

// RunStep advances the simulation by exactly one calendar event, returning
// false when the calendar is empty or the run has already ended.
func (s *Simulation) RunStep() bool {
	if s.inRunStep {
		panic("sim: RunStep is not re-entrant")
	}
	s.inRunStep = true
	defer func() { s.inRunStep = false }()

	if !s.running || s.cal.Len() == 0 {
		return false
	}

	e, ok := s.cal.popEarliest()
	if !ok {
		return false
	}
	s.currentTime = e.time

	historyBefore := len(s.stats.eventHistory)
	advanced := true

	switch e.typ {
	case eventGenerate:
		s.handleGenerate(e)
	case eventProcess:
		s.handleProcess(e)
	case eventEnd:
		s.running = false
		advanced = false
	default:
		panic(fmt.Sprintf("sim: unknown event type %v", e.typ))
	}

	if s.observer != nil {
		s.observer(s, s.stats.newEventsSince(historyBefore))
	}

	return advanced
}

func (s *Simulation) handleGenerate(e *calEvent) {
	src, ok := s.sourceIndex[e.sourceID]
	if !ok {
		panic(fmt.Sprintf("sim: GENERATE references unknown source %q", e.sourceID))
	}

	txn := src.generate(s.currentTime)

	outcome, endTime, serverID := s.dIn.process(txn)
	if outcome == admitServed {
		t := txn
		s.cal.push(&calEvent{
			typ: eventProcess, time: endTime,
			sourceID: src.SourceID, serverID: serverID, txn: &t,
		})
	}

	nextDelay := s.g.exponential(src.Lambda)
	s.cal.push(&calEvent{typ: eventGenerate, time: s.currentTime + nextDelay, sourceID: src.SourceID})
}

func (s *Simulation) handleProcess(e *calEvent) {
	srv, ok := s.serverIndex[e.serverID]
	if !ok {
		panic(fmt.Sprintf("sim: PROCESS references unknown server %q", e.serverID))
	}

	if srv.Current != nil {
		s.stats.recordServiceEnd(*srv.Current, s.currentTime)
	}
	srv.free()

	for _, sch := range s.dOut.onServerFree(srv, s.currentTime) {
		server := s.serverIndex[sch.serverID]
		if server == nil || server.Current == nil {
			continue
		}
		t := *server.Current
		s.cal.push(&calEvent{
			typ: eventProcess, time: sch.endTime,
			sourceID: t.SourceID, serverID: sch.serverID, txn: &t,
		})
	}
}

// RejectionRate is a convenience accessor equivalent to
// Statistics.RejectionRate().
func (s *Simulation) RejectionRate() float64 { return s.stats.RejectionRate() }

// SourceStatistics returns the derived statistics for one source.
func (s *Simulation) SourceStatistics(sourceID string) SourceStats {
	return s.stats.SourceStatistics(sourceID)
}

// ServerStatistics returns the derived statistics for one server given a
// total elapsed time (typically CurrentTime()).
func (s *Simulation) ServerStatistics(serverID string, totalTime float64) ServerStats {
	return s.stats.ServerStatistics(serverID, totalTime)
}

// SourceIDs returns every configured source id that has generated at least
// one transaction, for hosts enumerating SourceStatistics.
func (s *Simulation) SourceIDs() []string { return s.stats.sourceIDs() }

// CurrentTime returns the simulation's current virtual time.
func (s *Simulation) CurrentTime() float64 { return s.currentTime }

// TotalTransactions returns the scalar count of all generated transactions.
func (s *Simulation) TotalTransactions() int { return s.stats.totalTransactions }

// RejectedTransactions returns the scalar count of all rejected
// transactions.
func (s *Simulation) RejectedTransactions() int { return s.stats.rejectedTransactions }

// GetEventHistory returns the most recent limit statistics event records,
// or the full history when limit <= 0.
func (s *Simulation) GetEventHistory(limit int) []EventRecord {
	return s.stats.EventHistory(limit)
}

// ServerState is the GetState snapshot of one server.
type ServerState struct {
	ID                  string
	Busy                bool
	CurrentTransactionID string
}

// Summary is the GetState snapshot of the scalar statistics.
type Summary struct {
	TotalTransactions    int
	RejectedTransactions int
	RejectionRate        float64
}

// State is the full GetState snapshot. Two calls to GetState with no
// intervening RunStep must be equal.
type State struct {
	Time                    float64
	Buffer                  []Transaction
	Servers                 []ServerState
	CurrentPacket           []Transaction
	CurrentPacketSource     string
	ActivePacketProcessing  bool
	Statistics              Summary
}

// GetState returns a consistent snapshot of the kernel's externally visible
// state. Every slice is a defensive copy.
func (s *Simulation) GetState() State {
	servers := make([]ServerState, len(s.servers))
	for i, srv := range s.servers {
		ss := ServerState{ID: srv.ServerID, Busy: srv.Busy}
		if srv.Current != nil {
			ss.CurrentTransactionID = srv.Current.ID
		}
		servers[i] = ss
	}

	packet := make([]Transaction, len(s.dOut.currentPacket))
	copy(packet, s.dOut.currentPacket)

	return State{
		Time:                   s.currentTime,
		Buffer:                 s.buf.snapshot(),
		Servers:                servers,
		CurrentPacket:          packet,
		CurrentPacketSource:    s.dOut.currentPacketSource,
		ActivePacketProcessing: s.dOut.active,
		Statistics: Summary{
			TotalTransactions:    s.stats.totalTransactions,
			RejectedTransactions: s.stats.rejectedTransactions,
			RejectionRate:        s.stats.RejectionRate(),
		},
	}
}
