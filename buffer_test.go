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

func TestBuffer_AddRespectsCapacity(t *testing.T) {
	b := newBuffer(2)
	if !b.add(Transaction{ID: "a"}) {
		t.Fatal("expected first add to succeed")
	}
	if !b.add(Transaction{ID: "b"}) {
		t.Fatal("expected second add to succeed")
	}
	if b.add(Transaction{ID: "c"}) {
		t.Fatal("expected third add to fail once capacity is reached")
	}
	if !b.isFull() {
		t.Fatal("expected buffer to report full")
	}
}

func TestBuffer_RemoveBySourcePreservesOrder(t *testing.T) {
	b := newBuffer(10)
	b.add(Transaction{ID: "s1_1", SourceID: "s1"})
	b.add(Transaction{ID: "s2_1", SourceID: "s2"})
	b.add(Transaction{ID: "s1_2", SourceID: "s1"})
	b.add(Transaction{ID: "s2_2", SourceID: "s2"})
	b.add(Transaction{ID: "s1_3", SourceID: "s1"})

	removed := b.removeBySource("s1")
	wantRemoved := []string{"s1_1", "s1_2", "s1_3"}
	if len(removed) != len(wantRemoved) {
		t.Fatalf("removed %d transactions, want %d", len(removed), len(wantRemoved))
	}
	for i, id := range wantRemoved {
		if removed[i].ID != id {
			t.Errorf("removed[%d].ID = %q, want %q", i, removed[i].ID, id)
		}
	}

	wantRemaining := []string{"s2_1", "s2_2"}
	if b.size() != len(wantRemaining) {
		t.Fatalf("remaining size = %d, want %d", b.size(), len(wantRemaining))
	}
	for i, id := range wantRemaining {
		if b.items[i].ID != id {
			t.Errorf("items[%d].ID = %q, want %q", i, b.items[i].ID, id)
		}
	}
}

func TestBuffer_SourcesAndEmpty(t *testing.T) {
	b := newBuffer(5)
	if !b.isEmpty() {
		t.Fatal("expected new buffer to be empty")
	}
	b.add(Transaction{ID: "t1", SourceID: "s1"})
	b.add(Transaction{ID: "t2", SourceID: "s2"})
	b.add(Transaction{ID: "t3", SourceID: "s1"})

	sources := b.sources()
	seen := map[string]bool{}
	for _, s := range sources {
		seen[s] = true
	}
	if !seen["s1"] || !seen["s2"] || len(sources) != 2 {
		t.Errorf("sources() = %v, want exactly {s1, s2}", sources)
	}
}

func TestBuffer_SnapshotIsDefensiveCopy(t *testing.T) {
	b := newBuffer(5)
	b.add(Transaction{ID: "t1", SourceID: "s1"})

	snap := b.snapshot()
	snap[0].ID = "mutated"

	if b.items[0].ID != "t1" {
		t.Fatal("mutating a snapshot must not affect the buffer's own contents")
	}
}
