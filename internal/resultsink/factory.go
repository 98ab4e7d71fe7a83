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
	"fmt"
	"time"
)

// Build constructs an IdempotentPersister for a string selector.
// Supported adapters:
//   - "mock": in-process logger (default)
//   - "redis": idempotent Redis adapter; uses a real client when
//     opts.RedisAddr is set, otherwise a logging stand-in
//   - "kafka": idempotent Kafka adapter using a logging producer (no
//     broker dependency is wired; supply a real KafkaProducer directly
//     for production use)
func Build(adapter string, opts Options) (IdempotentPersister, error) {
	switch adapter {
	case "", "mock":
		return NewMockPersister(), nil
	case "redis":
		ttl := opts.RedisMarkerTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		var evaler RedisEvaler
		if opts.RedisAddr != "" {
			evaler = NewGoRedisEvaler(opts.RedisAddr)
		} else {
			evaler = LoggingRedisEvaler{}
		}
		return NewRedisPersister(evaler, ttl), nil
	case "kafka":
		topic := opts.KafkaTopic
		if topic == "" {
			topic = "txsim-results"
		}
		return NewKafkaPersister(LoggingKafkaProducer{}, topic), nil
	default:
		return nil, fmt.Errorf("resultsink: unknown adapter %q", adapter)
	}
}
