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

// Package render prints a Simulation's state and statistics to the
// console in fixed-width columns. It is a pure presentation layer: every
// function here takes already-computed sim values and never touches the
// calendar or dispatchers directly.
package render

import (
	"fmt"
	"sort"
	"strings"

	sim "txsim"
)

const ruleWidth = 90

func rule(ch string) string { return strings.Repeat(ch, ruleWidth) }

// Step prints one RunStep's resulting state: the step counter, current
// time, running totals, and the admission buffer's fill level.
func Step(step int, st sim.State, bufferCapacity int) {
	fmt.Println()
	fmt.Println(rule("="))
	fmt.Printf("STEP %3d | time: %7.2f | transactions: %3d | rejected: %3d | P(reject): %5.1f%%\n",
		step, st.Time, st.Statistics.TotalTransactions, st.Statistics.RejectedTransactions, st.Statistics.RejectionRate*100)
	fmt.Println(rule("="))

	fmt.Println("BUFFER (FIFO):")
	filled := strings.Repeat("#", len(st.Buffer))
	empty := strings.Repeat(".", bufferCapacity-len(st.Buffer))
	fmt.Printf("  [%s%s] %d/%d\n", filled, empty, len(st.Buffer), bufferCapacity)

	if len(st.Buffer) > 0 {
		fmt.Println("  contents:")
		n := len(st.Buffer)
		if n > 5 {
			n = 5
		}
		for i := 0; i < n; i++ {
			t := st.Buffer[i]
			wait := st.Time - t.Timestamp
			fmt.Printf("    %2d. %-10s (from %-4s, waiting: %5.2f)\n", i+1, t.ID, t.SourceID, wait)
		}
		if len(st.Buffer) > 5 {
			fmt.Printf("    ... and %d more\n", len(st.Buffer)-5)
		}
	} else {
		fmt.Println("  (empty)")
	}

	fmt.Println("\nSERVERS:")
	for _, s := range st.Servers {
		status := "idle"
		if s.Busy {
			status = "busy"
		}
		if s.CurrentTransactionID != "" {
			fmt.Printf("  %-6s %-5s current=%s\n", s.ID, status, s.CurrentTransactionID)
		} else {
			fmt.Printf("  %-6s %-5s\n", s.ID, status)
		}
	}

	if st.ActivePacketProcessing {
		fmt.Printf("\nEGRESS PACKET forming from source %s: %d transaction(s)\n", st.CurrentPacketSource, len(st.CurrentPacket))
	}
}

// EventHistory prints the given event records as a fixed-width table.
func EventHistory(records []sim.EventRecord) {
	if len(records) == 0 {
		return
	}
	fmt.Printf("\nEVENT HISTORY (last %d):\n", len(records))
	fmt.Println(rule("-"))
	fmt.Printf("%-8s %-16s %-10s %s\n", "time", "event", "txn", "detail")
	fmt.Println(rule("-"))
	for _, e := range records {
		fmt.Printf("%-8.2f %-16s %-10s %s\n", e.Time, e.Kind, e.TransactionID, describe(e))
	}
}

func describe(e sim.EventRecord) string {
	switch e.Kind {
	case sim.EventGenerated:
		return fmt.Sprintf("generated at source %s", e.SourceID)
	case sim.EventBufferEntry:
		return "entered admission buffer"
	case sim.EventServedDirect:
		return fmt.Sprintf("sent directly to server %s", e.ServerID)
	case sim.EventRejected:
		return "REJECTED: buffer full"
	case sim.EventServiceStart:
		return fmt.Sprintf("service start (waited %.2f)", e.WaitTime)
	case sim.EventServiceEnd:
		return fmt.Sprintf("service end (service=%.2f, system=%.2f)", e.ServiceTime, e.SystemTime)
	case sim.EventPacketFormed:
		return fmt.Sprintf("packet formed, size=%d", e.PacketSize)
	default:
		return ""
	}
}

// AutomatedSummary prints the final source/server statistics tables after
// an automated run.
func AutomatedSummary(s *sim.Simulation) {
	fmt.Println()
	fmt.Println(rule("="))
	fmt.Println("AUTOMATED RUN SUMMARY")
	fmt.Println(rule("="))

	fmt.Println("\nSIMULATION PARAMETERS:")
	fmt.Printf("  * total time:          %.2f\n", s.CurrentTime())
	fmt.Printf("  * transactions:        %d\n", s.TotalTransactions())
	fmt.Printf("  * rejected:            %d\n", s.RejectedTransactions())
	fmt.Printf("  * rejection rate:      %.1f%%\n", s.RejectionRate()*100)

	fmt.Println("\n" + rule("-"))
	fmt.Println("TABLE 1: SOURCE STATISTICS")
	fmt.Println(rule("-"))
	fmt.Printf("%-10s %-8s %-8s %-8s %-8s %-8s\n", "source", "gen.", "rej.", "P(rej)%", "sys_t", "wait_t")
	fmt.Println(rule("-"))

	ids := s.SourceIDs()
	sort.Strings(ids)
	for _, id := range ids {
		st := s.SourceStatistics(id)
		fmt.Printf("%-10s %-8d %-8d %-8.1f %-8.2f %-8.2f\n",
			id, st.Generated, st.Rejected, st.RejectionRate*100, st.AvgSystemTime, st.AvgWaitTime)
	}

	fmt.Println("\n" + rule("-"))
	fmt.Println("TABLE 2: SERVER STATISTICS")
	fmt.Println(rule("-"))
	fmt.Printf("%-10s %-10s %-12s\n", "server", "served", "utilization%")
	fmt.Println(rule("-"))
	for _, srv := range s.GetState().Servers {
		st := s.ServerStatistics(srv.ID, s.CurrentTime())
		fmt.Printf("%-10s %-10d %-12.1f\n", srv.ID, st.Processed, st.Utilization*100)
	}
}
