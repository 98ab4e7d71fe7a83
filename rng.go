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
	"math"
	"math/rand"
	"time"
)

// rng wraps the single pseudo-random source of one Simulation.
// It is never read from a package-level default; every Simulation owns one,
// injected at construction so runs are reproducible when a seed is given.
type rng struct {
	r *rand.Rand
}

// newRNG builds an rng from an explicit seed, or a time-derived seed when
// seed is nil (nondeterministic default per spec).
func newRNG(seed *int64) *rng {
	var s int64
	if seed != nil {
		s = *seed
	} else {
		s = time.Now().UnixNano()
	}
	return &rng{r: rand.New(rand.NewSource(s))}
}

// exponential draws an interarrival time with the given rate. A non-positive
// rate disables the stream: it returns +Inf, so the owning source never
// generates another arrival.
func (g *rng) exponential(rate float64) float64 {
	if rate <= 0 {
		return math.Inf(1)
	}
	u := g.r.Float64() // [0,1)
	return -math.Log(1.0-u) / rate
}

// uniform draws a value in [a,b]. Callers are expected to pass a <= b;
// service-time bounds are validated at Config construction time.
func (g *rng) uniform(a, b float64) float64 {
	if a == b {
		return a
	}
	return a + g.r.Float64()*(b-a)
}
