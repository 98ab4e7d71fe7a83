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
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// KafkaProducer is a minimal abstraction over a Kafka client.
//
// Requirements:
//   - Idempotent producer ON (enable.idempotence=true)
//   - Acks=all is recommended
type KafkaProducer interface {
	Produce(ctx context.Context, topic string, key []byte, value []byte, headers map[string]string) error
}

// KafkaPersister publishes a CommitBatch call as a single Kafka message
// containing every entry in the batch, keyed by the batch's scenario so all
// results for one scenario land on the same partition and a consumer can
// fold them in arrival order. A host loop's batch is always a handful of
// runs produced on one tick, not an independent stream of writes, so one
// message per batch (rather than one per entry) keeps that grouping intact
// on the wire. Idempotency is the broker's and the consumer's: an
// idempotent producer deduplicates retried sends, and a downstream consumer
// tracks the highest run_id applied per scenario and ignores anything at or
// below it.
type KafkaPersister struct {
	producer KafkaProducer
	topic    string
	timeout  time.Duration
}

func NewKafkaPersister(p KafkaProducer, topic string) *KafkaPersister {
	return &KafkaPersister{producer: p, topic: topic, timeout: 10 * time.Second}
}

// resultBatchMessage is the single payload CommitBatch publishes.
type resultBatchMessage struct {
	ProducedAtUnixMs int64          `json:"produced_at_unix_ms"`
	Results          []resultRecord `json:"results"`
}

type resultRecord struct {
	ScenarioID           string  `json:"scenario_id"`
	RunID                string  `json:"run_id"`
	RejectionRate        float64 `json:"rejection_rate"`
	TotalTransactions    int     `json:"total_transactions"`
	RejectedTransactions int     `json:"rejected_transactions"`
}

func (k *KafkaPersister) CommitBatch(ctx context.Context, entries []ResultEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok && k.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}

	msg := resultBatchMessage{ProducedAtUnixMs: time.Now().UnixMilli()}
	partitionKey := entries[0].ScenarioID
	for _, e := range entries {
		if e.RunID == "" {
			return errors.New("ResultEntry.RunID must be set")
		}
		msg.Results = append(msg.Results, resultRecord{
			ScenarioID:           e.ScenarioID,
			RunID:                e.RunID,
			RejectionRate:        e.RejectionRate,
			TotalTransactions:    e.TotalTransactions,
			RejectedTransactions: e.RejectedTransactions,
		})
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal kafka message: %w", err)
	}
	headers := map[string]string{"content-type": "application/json"}
	if err := k.producer.Produce(ctx, k.topic, []byte(partitionKey), b, headers); err != nil {
		return fmt.Errorf("kafka produce scenario=%s entries=%d: %w", partitionKey, len(entries), err)
	}
	return nil
}
