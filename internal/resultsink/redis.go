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
	"errors"
	"fmt"
	"time"
)

// RedisEvaler abstracts the minimal surface needed from a Redis client.
// Implementations may wrap github.com/redis/go-redis/v9 (Cmdable.Eval) or
// any equivalent.
type RedisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error)
}

// RedisPersister records run results idempotently using a Lua script:
//  1. SETNX marker:<scenario>:<run_id> 1
//  2. If set -> HSET result:<scenario> rejection_rate/total/rejected
//  3. EXPIRE the marker (TTL) for leak protection
//
// If SETNX fails (already applied), the script is a no-op.
type RedisPersister struct {
	client    RedisEvaler
	markerTTL time.Duration
}

// NewRedisPersister returns a persister with the given client and marker
// TTL. markerTTL guards against unbounded growth of idempotency markers;
// choose a duration comfortably larger than your maximum retry window.
func NewRedisPersister(client RedisEvaler, markerTTL time.Duration) *RedisPersister {
	if markerTTL <= 0 {
		markerTTL = 24 * time.Hour
	}
	return &RedisPersister{client: client, markerTTL: markerTTL}
}

const redisLuaScript = `
local resultKey = KEYS[1]
local markerKey = KEYS[2]
local rejectionRate = ARGV[1]
local total = ARGV[2]
local rejected = ARGV[3]
local ttlSeconds = tonumber(ARGV[4])
local set = redis.call('SETNX', markerKey, 1)
if set == 1 then
  redis.call('HSET', resultKey, 'rejection_rate', rejectionRate, 'total', total, 'rejected', rejected)
  if ttlSeconds and ttlSeconds > 0 then
    redis.call('EXPIRE', markerKey, ttlSeconds)
  end
  return 1
else
  return 0
end
`

func RedisResultKey(scenarioID string) string { return fmt.Sprintf("result:%s", scenarioID) }
func RedisRunMarkerKey(scenarioID, runID string) string {
	return fmt.Sprintf("marker:%s:%s", scenarioID, runID)
}

// CommitBatch applies entries one EVAL at a time. Callers wanting
// pipelining can wrap batching externally.
func (r *RedisPersister) CommitBatch(ctx context.Context, entries []ResultEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if e.RunID == "" {
			return errors.New("ResultEntry.RunID must be set")
		}
		keys := []string{RedisResultKey(e.ScenarioID), RedisRunMarkerKey(e.ScenarioID, e.RunID)}
		args := []interface{}{e.RejectionRate, e.TotalTransactions, e.RejectedTransactions, int(r.markerTTL.Seconds())}
		if _, err := r.client.Eval(ctx, redisLuaScript, keys, args...); err != nil {
			return fmt.Errorf("redis eval scenario=%s run=%s: %w", e.ScenarioID, e.RunID, err)
		}
	}
	return nil
}
