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

// Package resultsink provides idempotent persistence adapters for run
// results (mock, Redis, Kafka). A "result" is one completed simulation's
// terminal ResultEntry; re-submitting the same RunID must be a
// no-op, since a host retrying after a timeout or crash must not double
// count a run in downstream aggregates.
package resultsink

import "context"

// ResultEntry is the adapter-facing shape of one run's terminal outcome.
//
// Fields:
//   - ScenarioID: logical grouping key (e.g. config file name or label)
//   - RejectionRate: the run's terminal rejection-rate estimate
//   - TotalTransactions, RejectedTransactions: terminal scalar counters
//   - RunID: globally unique idempotency key for this run. Resubmitting the
//     same RunID is a no-op, making CommitBatch safe to retry.
type ResultEntry struct {
	ScenarioID           string
	RunID                string
	RejectionRate        float64
	TotalTransactions    int
	RejectedTransactions int
}

// IdempotentPersister is the minimal surface every adapter implements.
// Implementations must make applying the same RunID twice a no-op, and
// should be safe to retry on transient failure.
type IdempotentPersister interface {
	CommitBatch(ctx context.Context, entries []ResultEntry) error
}
