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

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"txsim/internal/config"
	"txsim/internal/metrics"
	"txsim/internal/render"
	"txsim/internal/resultsink"

	sim "txsim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Args:  cobra.NoArgs,
	Short: "Run one simulation scenario to completion",
	Long:  `Loads --config and either steps the kernel one event at a time until the END event stops the run (--step mode) or runs the automated stopping-rule controller (default).`,
	RunE:  runScenario,
}

func init() {
	runCmd.Flags().Bool("step", false, "advance one event at a time with a console trace, instead of the automated controller")
	runCmd.Flags().Float64("accuracy", 0.1, "automated mode: target relative change in the rejection-rate estimate")
	runCmd.Flags().Float64("confidence", 0.9, "automated mode: confidence level (only the default one-sided quantile is implemented)")
	runCmd.Flags().Int("history", 20, "number of recent events to print after the run")
	runCmd.Flags().String("sink", "", "result sink adapter: mock, redis, kafka (empty: no result is committed)")
	runCmd.Flags().String("redis-addr", "", "redis address for --sink=redis (logging stand-in if empty)")
	runCmd.Flags().String("kafka-topic", "", "kafka topic for --sink=kafka")
	runCmd.Flags().String("scenario-id", "", "label recorded with the committed result (defaults to --config)")
	runCmd.Flags().String("metrics-addr", "", "if set, expose GET /metrics on this address for the duration of the run")
}

func runScenario(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("--config is required")
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	var httpServer *http.Server
	if metricsAddr != "" {
		metrics.Register(nil)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		httpServer = &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			fmt.Printf("txsim metrics listening on %s\n", metricsAddr)
			_ = httpServer.ListenAndServe()
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(ctx)
		}()
	}

	var opts []sim.Option
	if useSeed {
		opts = append(opts, sim.WithSeed(seed))
	}
	if metricsAddr != "" {
		opts = append(opts, sim.WithObserver(newMetricsObserver()))
	}
	s, err := sim.New(cfg, verbose, opts...)
	if err != nil {
		return fmt.Errorf("construct simulation: %w", err)
	}

	step, _ := cmd.Flags().GetBool("step")
	accuracy, _ := cmd.Flags().GetFloat64("accuracy")
	confidence, _ := cmd.Flags().GetFloat64("confidence")
	history, _ := cmd.Flags().GetInt("history")

	if step {
		s.Start()
		n := 0
		for s.RunStep() {
			n++
			if verbose {
				render.Step(n, s.GetState(), cfg.BufferCapacity)
			}
		}
	} else {
		s.RunAutomated(accuracy, confidence)
	}

	render.AutomatedSummary(s)
	render.EventHistory(s.GetEventHistory(history))

	sinkName, _ := cmd.Flags().GetString("sink")
	if sinkName != "" {
		return commitResult(cmd, s, sinkName)
	}
	return nil
}

func commitResult(cmd *cobra.Command, s *sim.Simulation, sinkName string) error {
	redisAddr, _ := cmd.Flags().GetString("redis-addr")
	kafkaTopic, _ := cmd.Flags().GetString("kafka-topic")
	scenarioID, _ := cmd.Flags().GetString("scenario-id")
	if scenarioID == "" {
		scenarioID = cfgFile
	}

	persister, err := resultsink.Build(sinkName, resultsink.Options{
		RedisAddr:  redisAddr,
		KafkaTopic: kafkaTopic,
	})
	if err != nil {
		return err
	}

	entry := resultsink.ResultEntry{
		ScenarioID:           scenarioID,
		RunID:                randomRunID(),
		RejectionRate:        s.RejectionRate(),
		TotalTransactions:    s.TotalTransactions(),
		RejectedTransactions: s.RejectedTransactions(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return persister.CommitBatch(ctx, []resultsink.ResultEntry{entry})
}

func randomRunID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	dst := make([]byte, 32)
	hex.Encode(dst, b[:])
	return string(dst)
}
