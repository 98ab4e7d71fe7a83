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

import "container/heap"

// eventType is the closed set of calendar event kinds. The set is small
// and closed, so a tagged variant is preferable to a virtual event
// hierarchy.
type eventType int

const (
	eventGenerate eventType = iota
	eventProcess
	eventEnd
)

// calEvent is one entry on the simulation calendar. Ordering is strictly by
// Time; ties are broken by seq, the insertion sequence, so that within a
// single run the heap's tie order is deterministic regardless of Go's
// container/heap sift implementation.
type calEvent struct {
	typ      eventType
	time     float64
	seq      uint64
	sourceID string
	serverID string
	txn      *Transaction
}

// calendar is a min-heap keyed on (time, seq).
type calendar struct {
	events []*calEvent
	nextSeq uint64
}

func newCalendar() *calendar {
	c := &calendar{}
	heap.Init(c)
	return c
}

func (c *calendar) push(e *calEvent) {
	e.seq = c.nextSeq
	c.nextSeq++
	heap.Push(c, e)
}

func (c *calendar) popEarliest() (*calEvent, bool) {
	if c.Len() == 0 {
		return nil, false
	}
	return heap.Pop(c).(*calEvent), true
}

// heap.Interface implementation.

func (c *calendar) Len() int { return len(c.events) }

func (c *calendar) Less(i, j int) bool {
	if c.events[i].time != c.events[j].time {
		return c.events[i].time < c.events[j].time
	}
	return c.events[i].seq < c.events[j].seq
}

func (c *calendar) Swap(i, j int) {
	c.events[i], c.events[j] = c.events[j], c.events[i]
}

func (c *calendar) Push(x interface{}) {
	c.events = append(c.events, x.(*calEvent))
}

func (c *calendar) Pop() interface{} {
	old := c.events
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	c.events = old[:n-1]
	return e
}
