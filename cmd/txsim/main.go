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

// Package main provides the entry point for txsim, the transaction
// verification queueing network simulator.
//
// txsim loads a scenario describing Poisson arrival sources, a bounded
// admission buffer, and a pool of uniform-service-time servers, then runs
// the discrete-event kernel either step-by-step with a console trace or in
// automated mode until the rejection-rate estimate stabilizes. Results can
// optionally be pushed to Prometheus and/or committed to a result sink
// (mock, Redis, or Kafka).
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	seed    int64
	useSeed bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "txsim",
	Short:   "Transaction-verification queueing network simulator",
	Long:    `txsim is a discrete-event simulator of a transaction-verification queueing network: Poisson arrival sources, a bounded admission buffer, a server pool, and priority-packetized egress dispatch.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "scenario configuration file (json, yaml, or toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print a trace of every step")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "deterministic PRNG seed")
	rootCmd.PersistentFlags().BoolVar(&useSeed, "use-seed", false, "pin the PRNG to --seed instead of a nondeterministic seed")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
