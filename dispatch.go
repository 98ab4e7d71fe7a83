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

import (
	"sort"
	"strconv"
)

// admitOutcome is the result of routing a freshly generated transaction
// through the admission dispatcher.
type admitOutcome int

const (
	admitServed admitOutcome = iota
	admitBuffered
	admitRejected
)

// dispatcherIn is D_in: on arrival, start the transaction on the first free
// server in configured order, else buffer it, else reject it. It never
// returns an error — a full buffer is a normal, statistically recorded
// outcome.
type dispatcherIn struct {
	buffer  *buffer
	servers []*Server
	stats   *Statistics
	g       *rng
}

// process routes t, returning the outcome and, when served, the scheduled
// end time and the id of the server it was placed on.
func (d *dispatcherIn) process(t Transaction) (outcome admitOutcome, endTime float64, serverID string) {
	d.stats.recordGenerated(t.SourceID)
	d.stats.append(EventRecord{Kind: EventGenerated, Time: t.Timestamp, TransactionID: t.ID, SourceID: t.SourceID})

	var chosen *Server
	for _, s := range d.servers {
		if s.isFree() {
			chosen = s
			break
		}
	}

	if chosen != nil {
		end := chosen.start(t, t.Timestamp, d.g)
		d.stats.recordServiceStart(t, t.Timestamp, chosen.ServerID)
		d.stats.recordServedDirect(t, chosen.ServerID, t.Timestamp)
		return admitServed, end, chosen.ServerID
	}

	if d.buffer.add(t) {
		d.stats.recordBufferEntry(t, t.Timestamp)
		return admitBuffered, 0, ""
	}

	d.stats.recordRejection(t, t.Timestamp)
	return admitRejected, 0, ""
}

// dispatcherOut is D_out: on server-free, resume draining an active packet
// or form a new one from the buffer's highest-priority source, then start
// its head transaction on the freed server. It never rejects; it is a no-op
// when there is nothing to drain.
type dispatcherOut struct {
	buffer  *buffer
	stats   *Statistics
	g       *rng
	sources map[string]*Source // for priority resolution in selectPacket

	currentPacket       []Transaction
	currentPacketSource string
	active              bool
}

// scheduledEnd pairs a server id with the end time of the transaction just
// started on it, so the kernel can push the corresponding PROCESS event.
type scheduledEnd struct {
	serverID string
	endTime  float64
}

// onServerFree is the D_out entry point, called whenever a server becomes
// free at current time tau.
func (d *dispatcherOut) onServerFree(s *Server, tau float64) []scheduledEnd {
	var ends []scheduledEnd

	if d.active && len(d.currentPacket) > 0 {
		if s.isFree() {
			head := d.currentPacket[0]
			d.currentPacket = d.currentPacket[1:]
			end := s.start(head, tau, d.g)
			d.stats.recordServiceStart(head, tau, s.ServerID)
			ends = append(ends, scheduledEnd{serverID: s.ServerID, endTime: end})
		}
		if len(d.currentPacket) == 0 {
			d.active = false
			d.currentPacketSource = ""
		}
		return ends
	}

	packet := d.selectPacket()
	if len(packet) == 0 {
		return nil
	}

	d.currentPacket = packet
	d.currentPacketSource = packet[0].SourceID
	d.active = true
	d.stats.recordPacketFormed(d.currentPacketSource, len(packet), tau)

	if s.isFree() {
		head := d.currentPacket[0]
		d.currentPacket = d.currentPacket[1:]
		end := s.start(head, tau, d.g)
		d.stats.recordServiceStart(head, tau, s.ServerID)
		ends = append(ends, scheduledEnd{serverID: s.ServerID, endTime: end})
		if len(d.currentPacket) == 0 {
			d.active = false
			d.currentPacketSource = ""
		}
	}

	return ends
}

// selectPacket picks the highest-priority source present in the buffer and
// removes its entire run of transactions.
//
// Priority resolution prefers the Source's configured Priority field; the
// suffix-parsing rule (parse the id after its first rune as an integer,
// defaulting to 999) is kept only as a fallback for a source_id that
// cannot be resolved against the configured sources. See DESIGN.md for
// the reasoning behind this fallback order.
func (d *dispatcherOut) selectPacket() []Transaction {
	if d.buffer.isEmpty() {
		return nil
	}
	present := d.buffer.sources()
	if len(present) == 0 {
		return nil
	}

	sort.Slice(present, func(i, j int) bool {
		ki, kj := d.priorityKey(present[i]), d.priorityKey(present[j])
		if ki != kj {
			return ki < kj
		}
		return present[i] < present[j]
	})

	return d.buffer.removeBySource(present[0])
}

func (d *dispatcherOut) priorityKey(sourceID string) int {
	if src, ok := d.sources[sourceID]; ok {
		return src.Priority
	}
	return suffixPriorityKey(sourceID)
}

// suffixPriorityKey implements the reference's fallback rule: parse the
// substring after the first character as an integer; non-numeric suffixes
// get key 999.
func suffixPriorityKey(sourceID string) int {
	if len(sourceID) < 2 {
		return 999
	}
	n, err := strconv.Atoi(sourceID[1:])
	if err != nil {
		return 999
	}
	return n
}
