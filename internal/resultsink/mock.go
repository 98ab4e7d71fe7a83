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

package resultsink

import (
	"context"
	"fmt"
	"sync"
)

// MockPersister prints committed results to the console and tracks seen
// RunIDs in memory so repeated commits of the same run are visibly
// reported as duplicates. It has no durability and exists for local runs
// and demos where wiring Redis or Kafka is unwarranted.
type MockPersister struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewMockPersister returns a ready-to-use in-process persister.
func NewMockPersister() *MockPersister {
	return &MockPersister{seen: make(map[string]bool)}
}

// CommitBatch prints each entry once; a RunID already seen is reported as
// a no-op rather than printed again, matching the durable adapters'
// idempotency contract.
func (m *MockPersister) CommitBatch(ctx context.Context, entries []ResultEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		key := e.ScenarioID + "/" + e.RunID
		if m.seen[key] {
			fmt.Printf("[resultsink-mock] duplicate run_id=%s scenario=%s, skipped\n", e.RunID, e.ScenarioID)
			continue
		}
		m.seen[key] = true
		fmt.Printf("[resultsink-mock] scenario=%s run=%s rejection_rate=%.4f total=%d rejected=%d\n",
			e.ScenarioID, e.RunID, e.RejectionRate, e.TotalTransactions, e.RejectedTransactions)
	}
	return nil
}
