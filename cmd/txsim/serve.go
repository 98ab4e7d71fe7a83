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
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"txsim/internal/config"
	"txsim/internal/metrics"

	sim "txsim"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Args:  cobra.NoArgs,
	Short: "Run the automated controller repeatedly, exposing Prometheus metrics",
	Long:  `Loads --config once and repeatedly runs the automated stopping-rule controller against a fresh Simulation, pushing each run's steady-state estimates to Prometheus until interrupted.`,
	RunE:  serveScenario,
}

func init() {
	serveCmd.Flags().String("metrics-addr", ":9090", "address to expose GET /metrics on")
	serveCmd.Flags().Float64("accuracy", 0.1, "automated mode: target relative change in the rejection-rate estimate")
	serveCmd.Flags().Float64("confidence", 0.9, "automated mode: confidence level")
	serveCmd.Flags().Duration("interval", 5*time.Second, "delay between successive runs")
}

func serveScenario(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	accuracy, _ := cmd.Flags().GetFloat64("accuracy")
	confidence, _ := cmd.Flags().GetFloat64("confidence")
	interval, _ := cmd.Flags().GetDuration("interval")

	metrics.Register(nil)
	http.Handle("/metrics", promhttp.Handler())
	httpServer := &http.Server{Addr: metricsAddr}

	go func() {
		fmt.Printf("txsim metrics listening on %s\n", metricsAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("could not listen on %s: %v\n", metricsAddr, err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go runLoop(cfg, accuracy, confidence, interval, stop, done)

	<-done
	fmt.Println("\nshutting down metrics server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("metrics server shutdown failed: %v", err)
	}
	fmt.Println("stopped.")
	return nil
}

func runLoop(cfg sim.Config, accuracy, confidence float64, interval time.Duration, stop <-chan os.Signal, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		default:
		}

		opts := []sim.Option{sim.WithObserver(newMetricsObserver())}
		if useSeed {
			opts = append(opts, sim.WithSeed(seed))
		}
		s, err := sim.New(cfg, false, opts...)
		if err != nil {
			log.Printf("construct simulation: %v", err)
			return
		}
		s.RunAutomated(accuracy, confidence)

		select {
		case <-stop:
			return
		case <-time.After(interval):
		}
	}
}
