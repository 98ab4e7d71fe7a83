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

// EventKind enumerates the observational record types statistics appends to
// its event history. These are distinct from the calendar's Event (GENERATE,
// PROCESS, END): EventKind records what the dispatchers and kernel observed,
// not what they still have to do.
type EventKind string

const (
	EventGenerated   EventKind = "GENERATE"
	EventBufferEntry EventKind = "BUFFER_ENTRY"
	EventServedDirect EventKind = "SERVED_DIRECT"
	EventRejected    EventKind = "REJECTED"
	EventServiceStart EventKind = "SERVICE_START"
	EventServiceEnd  EventKind = "SERVICE_END"
	EventPacketFormed EventKind = "PACKET_FORMED"
)

// EventRecord is one append-only entry in the statistics event history.
type EventRecord struct {
	Kind          EventKind
	Time          float64
	TransactionID string
	SourceID      string
	ServerID      string
	WaitTime      float64
	ServiceTime   float64
	SystemTime    float64
	PacketSize    int
}

type sourceAccum struct {
	generated   int
	rejected    int
	completed   int
	totalWait   float64
	totalSvc    float64
	totalSys    float64
	waitTimes   []float64
	svcTimes    []float64
	sysTimes    []float64
}

type serverAccum struct {
	busyTime  float64
	processed int
}

type serviceStartInfo struct {
	start    float64
	serverID string
	sourceID string
}

// Statistics aggregates every observable state transition of a Simulation:
// scalar totals, per-source and per-server accumulators, in-flight
// bookkeeping needed to compute wait/service/system times, and an
// append-only event history.
type Statistics struct {
	totalTransactions    int
	rejectedTransactions int

	bySource map[string]*sourceAccum
	byServer map[string]*serverAccum

	bufferEntryTime map[string]float64
	serviceStart    map[string]serviceStartInfo

	eventHistory []EventRecord
}

func newStatistics() *Statistics {
	return &Statistics{
		bySource:        make(map[string]*sourceAccum),
		byServer:        make(map[string]*serverAccum),
		bufferEntryTime: make(map[string]float64),
		serviceStart:    make(map[string]serviceStartInfo),
	}
}

func (s *Statistics) source(id string) *sourceAccum {
	a, ok := s.bySource[id]
	if !ok {
		a = &sourceAccum{}
		s.bySource[id] = a
	}
	return a
}

func (s *Statistics) server(id string) *serverAccum {
	a, ok := s.byServer[id]
	if !ok {
		a = &serverAccum{}
		s.byServer[id] = a
	}
	return a
}

func (s *Statistics) recordGenerated(sourceID string) {
	s.totalTransactions++
	s.source(sourceID).generated++
}

func (s *Statistics) recordRejection(t Transaction, time float64) {
	s.rejectedTransactions++
	s.source(t.SourceID).rejected++
	s.append(EventRecord{Kind: EventRejected, Time: time, TransactionID: t.ID, SourceID: t.SourceID})
}

func (s *Statistics) recordBufferEntry(t Transaction, time float64) {
	s.bufferEntryTime[t.ID] = time
	s.append(EventRecord{Kind: EventBufferEntry, Time: time, TransactionID: t.ID, SourceID: t.SourceID})
}

func (s *Statistics) recordServedDirect(t Transaction, serverID string, time float64) {
	s.append(EventRecord{Kind: EventServedDirect, Time: time, TransactionID: t.ID, SourceID: t.SourceID, ServerID: serverID})
}

// recordServiceStart records the start of service for t on server serverID
// at start. If t passed through the buffer, the wait time is computed and
// sampled; directly-served transactions have implicit wait 0 and are not
// sampled into wait_times.
func (s *Statistics) recordServiceStart(t Transaction, start float64, serverID string) {
	s.serviceStart[t.ID] = serviceStartInfo{start: start, serverID: serverID, sourceID: t.SourceID}

	wait := 0.0
	if entry, ok := s.bufferEntryTime[t.ID]; ok {
		wait = start - entry
		acc := s.source(t.SourceID)
		acc.waitTimes = append(acc.waitTimes, wait)
		acc.totalWait += wait
		delete(s.bufferEntryTime, t.ID)
	}

	s.append(EventRecord{
		Kind: EventServiceStart, Time: start, TransactionID: t.ID,
		SourceID: t.SourceID, ServerID: serverID, WaitTime: wait,
	})
}

// recordServiceEnd records completion of t at end, updating per-source and
// per-server accumulators, and clears its in-flight bookkeeping.
func (s *Statistics) recordServiceEnd(t Transaction, end float64) {
	info, ok := s.serviceStart[t.ID]
	if !ok {
		return
	}
	serviceTime := end - info.start
	systemTime := end - t.Timestamp

	srv := s.server(info.serverID)
	srv.busyTime += serviceTime
	srv.processed++

	acc := s.source(info.sourceID)
	acc.completed++
	acc.svcTimes = append(acc.svcTimes, serviceTime)
	acc.totalSvc += serviceTime
	acc.sysTimes = append(acc.sysTimes, systemTime)
	acc.totalSys += systemTime

	s.append(EventRecord{
		Kind: EventServiceEnd, Time: end, TransactionID: t.ID,
		SourceID: info.sourceID, ServerID: info.serverID,
		ServiceTime: serviceTime, SystemTime: systemTime,
	})

	delete(s.serviceStart, t.ID)
}

func (s *Statistics) recordPacketFormed(sourceID string, packetSize int, time float64) {
	s.append(EventRecord{Kind: EventPacketFormed, Time: time, SourceID: sourceID, PacketSize: packetSize})
}

func (s *Statistics) append(e EventRecord) {
	s.eventHistory = append(s.eventHistory, e)
}

// newEventsSince returns a defensive copy of the event records appended
// after index n, for an Observer that wants only what one RunStep produced.
func (s *Statistics) newEventsSince(n int) []EventRecord {
	if n >= len(s.eventHistory) {
		return nil
	}
	out := make([]EventRecord, len(s.eventHistory)-n)
	copy(out, s.eventHistory[n:])
	return out
}

// RejectionRate returns rejected/total, 0 when nothing has been generated.
func (s *Statistics) RejectionRate() float64 {
	if s.totalTransactions == 0 {
		return 0
	}
	return float64(s.rejectedTransactions) / float64(s.totalTransactions)
}

// SourceStats is the derived, read-only summary for one source.
type SourceStats struct {
	Generated     int
	Rejected      int
	Completed     int
	RejectionRate float64
	AvgSystemTime float64
	AvgWaitTime   float64
	AvgServiceTime float64
	VarWaitTime    float64
	VarServiceTime float64
}

// SourceStatistics computes the derived statistics for one source. An
// unknown or never-generated source returns a zero-valued SourceStats.
func (s *Statistics) SourceStatistics(sourceID string) SourceStats {
	acc, ok := s.bySource[sourceID]
	if !ok || acc.generated == 0 {
		return SourceStats{}
	}

	var rejRate float64
	if acc.generated > 0 {
		rejRate = float64(acc.rejected) / float64(acc.generated)
	}

	var avgSys, avgWait, avgSvc float64
	if acc.completed > 0 {
		avgSys = acc.totalSys / float64(acc.completed)
		avgWait = acc.totalWait / float64(acc.completed)
		avgSvc = acc.totalSvc / float64(acc.completed)
	}
	var waitSampleMean float64
	if n := len(acc.waitTimes); n > 0 {
		waitSampleMean = acc.totalWait / float64(n)
	}

	return SourceStats{
		Generated:      acc.generated,
		Rejected:       acc.rejected,
		Completed:      acc.completed,
		RejectionRate:  rejRate,
		AvgSystemTime:  avgSys,
		AvgWaitTime:    avgWait,
		AvgServiceTime: avgSvc,
		VarWaitTime:    sampleVariance(acc.waitTimes, waitSampleMean),
		VarServiceTime: sampleVariance(acc.svcTimes, avgSvc),
	}
}

// ServerStats is the derived, read-only summary for one server.
type ServerStats struct {
	Processed   int
	BusyTime    float64
	Utilization float64
}

// ServerStatistics computes the derived statistics for one server given the
// total elapsed virtual time (typically the simulation's current time).
func (s *Statistics) ServerStatistics(serverID string, totalTime float64) ServerStats {
	acc, ok := s.byServer[serverID]
	if !ok {
		return ServerStats{}
	}
	var util float64
	if totalTime > 0 {
		util = acc.busyTime / totalTime
	}
	return ServerStats{Processed: acc.processed, BusyTime: acc.busyTime, Utilization: util}
}

// sourceIDs returns every source id that has recorded at least one
// generated transaction, for hosts that want to enumerate SourceStatistics.
func (s *Statistics) sourceIDs() []string {
	out := make([]string, 0, len(s.bySource))
	for id := range s.bySource {
		out = append(out, id)
	}
	return out
}

func sampleVariance(values []float64, mean float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return sumSq / float64(len(values)-1)
}

// EventHistory returns the most recent limit event records, or the entire
// history when limit <= 0.
func (s *Statistics) EventHistory(limit int) []EventRecord {
	if limit <= 0 || limit >= len(s.eventHistory) {
		out := make([]EventRecord, len(s.eventHistory))
		copy(out, s.eventHistory)
		return out
	}
	start := len(s.eventHistory) - limit
	out := make([]EventRecord, limit)
	copy(out, s.eventHistory[start:])
	return out
}
