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

func TestDispatcherIn_ServesOnFreeServer(t *testing.T) {
	srv := &Server{ServerID: "srv1", MinTime: 1, MaxTime: 1}
	d := &dispatcherIn{
		buffer:  newBuffer(5),
		servers: []*Server{srv},
		stats:   newStatistics(),
		g:       newRNG(ptrInt64(1)),
	}

	outcome, end, serverID := d.process(Transaction{ID: "t1", Timestamp: 0})
	if outcome != admitServed {
		t.Fatalf("outcome = %v, want admitServed", outcome)
	}
	if serverID != "srv1" {
		t.Errorf("serverID = %q, want srv1", serverID)
	}
	if end != 1 {
		t.Errorf("end = %v, want 1 (min_time == max_time == 1)", end)
	}
	if !srv.Busy || srv.Current == nil || srv.Current.ID != "t1" {
		t.Error("server should now be busy with t1")
	}
}

func TestDispatcherIn_BuffersWhenServersBusy(t *testing.T) {
	srv := &Server{ServerID: "srv1", MinTime: 1, MaxTime: 1, Busy: true, Current: &Transaction{ID: "inflight"}}
	d := &dispatcherIn{
		buffer:  newBuffer(5),
		servers: []*Server{srv},
		stats:   newStatistics(),
		g:       newRNG(ptrInt64(1)),
	}

	outcome, _, _ := d.process(Transaction{ID: "t2", Timestamp: 0})
	if outcome != admitBuffered {
		t.Fatalf("outcome = %v, want admitBuffered", outcome)
	}
	if d.buffer.size() != 1 {
		t.Errorf("buffer size = %d, want 1", d.buffer.size())
	}
}

func TestDispatcherIn_RejectsWhenBufferFull(t *testing.T) {
	srv := &Server{ServerID: "srv1", Busy: true, Current: &Transaction{ID: "inflight"}}
	buf := newBuffer(0)
	d := &dispatcherIn{buffer: buf, servers: []*Server{srv}, stats: newStatistics(), g: newRNG(ptrInt64(1))}

	outcome, _, _ := d.process(Transaction{ID: "t3", Timestamp: 0})
	if outcome != admitRejected {
		t.Fatalf("outcome = %v, want admitRejected", outcome)
	}
	if d.stats.rejectedTransactions != 1 {
		t.Errorf("rejectedTransactions = %d, want 1", d.stats.rejectedTransactions)
	}
}

func TestDispatcherOut_SelectPacketPrefersConfiguredPriority(t *testing.T) {
	buf := newBuffer(10)
	buf.add(Transaction{ID: "s1_1", SourceID: "s1"})
	buf.add(Transaction{ID: "s2_1", SourceID: "s2"})

	sources := map[string]*Source{
		"s1": {SourceID: "s1", Priority: 5},
		"s2": {SourceID: "s2", Priority: 1},
	}
	d := &dispatcherOut{buffer: buf, stats: newStatistics(), g: newRNG(ptrInt64(1)), sources: sources}

	packet := d.selectPacket()
	if len(packet) != 1 || packet[0].SourceID != "s2" {
		t.Fatalf("selectPacket() picked source %v, want s2 (lower configured priority)", packet)
	}
}

func TestDispatcherOut_SelectPacketFallsBackToSuffixForUnresolvedSource(t *testing.T) {
	buf := newBuffer(10)
	buf.add(Transaction{ID: "x20_1", SourceID: "x20"})
	buf.add(Transaction{ID: "x1_1", SourceID: "x1"})

	d := &dispatcherOut{buffer: buf, stats: newStatistics(), g: newRNG(ptrInt64(1)), sources: map[string]*Source{}}

	packet := d.selectPacket()
	if len(packet) != 1 || packet[0].SourceID != "x1" {
		t.Fatalf("selectPacket() picked %v, want x1 (suffix 1 < suffix 20, lower key wins)", packet)
	}
}

func TestDispatcherOut_ResumesActivePacketBeforeFormingNew(t *testing.T) {
	buf := newBuffer(10)
	buf.add(Transaction{ID: "other_1", SourceID: "other"})

	d := &dispatcherOut{
		buffer:              buf,
		stats:                newStatistics(),
		g:                    newRNG(ptrInt64(1)),
		sources:              map[string]*Source{},
		currentPacket:        []Transaction{{ID: "held_1", SourceID: "held"}},
		currentPacketSource:  "held",
		active:               true,
	}

	srv := &Server{ServerID: "srv1"}
	scheduled := d.onServerFree(srv, 0)
	if len(scheduled) != 1 {
		t.Fatalf("expected one scheduled end time, got %d", len(scheduled))
	}
	if srv.Current == nil || srv.Current.ID != "held_1" {
		t.Fatal("expected the held packet's head to be started, not a freshly formed packet")
	}
	if d.active {
		t.Error("active packet should have been fully drained and cleared")
	}
	if buf.size() != 1 {
		t.Errorf("the 'other' source's transaction should remain untouched, buffer size = %d", buf.size())
	}
}

func TestDispatcherOut_FIFOWithinASourceDrainsInOrder(t *testing.T) {
	buf := newBuffer(10)
	buf.add(Transaction{ID: "s1_1", SourceID: "s1"})
	buf.add(Transaction{ID: "s1_2", SourceID: "s1"})
	buf.add(Transaction{ID: "s1_3", SourceID: "s1"})

	d := &dispatcherOut{buffer: buf, stats: newStatistics(), g: newRNG(ptrInt64(1)), sources: map[string]*Source{}}

	srv := &Server{ServerID: "srv1"}
	d.onServerFree(srv, 0)
	if srv.Current == nil || srv.Current.ID != "s1_1" {
		t.Fatalf("expected s1_1 to start first, got %v", srv.Current)
	}
	if len(d.currentPacket) != 2 || d.currentPacket[0].ID != "s1_2" || d.currentPacket[1].ID != "s1_3" {
		t.Fatalf("remaining packet order wrong: %v", d.currentPacket)
	}
	if !d.active {
		t.Error("packet should still be active with two transactions left")
	}

	srv.free()
	d.onServerFree(srv, 1)
	if srv.Current == nil || srv.Current.ID != "s1_2" {
		t.Fatalf("expected s1_2 next, got %v", srv.Current)
	}

	srv.free()
	d.onServerFree(srv, 2)
	if srv.Current == nil || srv.Current.ID != "s1_3" {
		t.Fatalf("expected s1_3 last, got %v", srv.Current)
	}
	if d.active || len(d.currentPacket) != 0 {
		t.Error("packet should be exhausted and inactive after draining s1_3")
	}
}

func ptrInt64(v int64) *int64 { return &v }
