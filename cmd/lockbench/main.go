/*************************************************************************
 * Copyright (C) 2016-2019 PDX Technologies, Inc. All Rights Reserved.
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 * @Time   : 2020/7/10 4:18 下午
 * @Author : liangc
 *************************************************************************/

// Command lockbench measures how contention on one shared lock limits the
// throughput of workers toggling it.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cc14514/go-lock-contention/bench"
	"github.com/cc14514/go-lock-contention/mutex"
	"github.com/cc14514/go-lock-contention/obs"
	"github.com/cc14514/go-lock-contention/store"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func parseFlags(args []string) (bench.Config, string, string, error) {
	def := bench.DefaultConfig()
	fs := flag.NewFlagSet("lockbench", flag.ContinueOnError)
	var (
		lock        = fs.String("lock", string(def.Lock), "lock kind: "+kindList())
		name        = fs.String("name", def.LockName, "shared lock name")
		unlockRate  = fs.Float64("unlock-rate", def.UnlockRate, "rate of unlock events per work unit while holding")
		lockRate    = fs.Float64("lock-rate", def.LockRate, "rate of lock events per work unit while released")
		budget      = fs.Duration("budget", def.Budget, "wall clock budget per worker")
		threads     = fs.String("threads", "1,2,4", "comma separated thread counts")
		seed        = fs.Int64("seed", 0, "random seed, 0 seeds from the clock")
		dbPath      = fs.String("db", getenv("LOCKBENCH_DB", ""), "sqlite file to store results in")
		metricsAddr = fs.String("metrics-addr", "", "serve /metrics on this address after the sweep")
	)
	if err := fs.Parse(args); err != nil {
		return bench.Config{}, "", "", err
	}

	kind, err := mutex.ParseKind(*lock)
	if err != nil {
		return bench.Config{}, "", "", err
	}
	counts, err := bench.ParseThreads(*threads)
	if err != nil {
		return bench.Config{}, "", "", err
	}
	cfg := bench.Config{
		Lock:       kind,
		LockName:   *name,
		UnlockRate: *unlockRate,
		LockRate:   *lockRate,
		Budget:     *budget,
		Threads:    counts,
		Seed:       *seed,
	}
	return cfg, *dbPath, *metricsAddr, cfg.Validate()
}

func run(args []string, out io.Writer) error {
	cfg, dbPath, metricsAddr, err := parseFlags(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	runner := bench.NewRunner(obs.NewLogger())
	runner.Metrics = obs.NewMetrics(reg)

	if dbPath != "" {
		db, err := store.Open(ctx, store.Config{Path: dbPath})
		if err != nil {
			return fmt.Errorf("db open: %w", err)
		}
		defer db.Close()
		runner.Store = db
	}

	runs, err := runner.Sweep(ctx, cfg)
	report(out, cfg, runs)
	if err != nil {
		return err
	}

	if metricsAddr != "" {
		return serveMetrics(ctx, metricsAddr, reg)
	}
	return nil
}

func report(out io.Writer, cfg bench.Config, runs []store.Run) {
	fmt.Fprintln(out, "=== Lock Contention ===")
	fmt.Fprintf(out, "lock: %s, unlock rate: %g, lock rate: %g, budget: %s\n",
		cfg.Lock, cfg.UnlockRate, cfg.LockRate, cfg.Budget)
	fmt.Fprintf(out, "%-8s %-14s %-12s %-16s\n", "threads", "tasks", "elapsed", "tasks/sec")
	for _, r := range runs {
		var (
			tasks   uint64
			elapsed time.Duration
		)
		for _, res := range r.Results {
			tasks += res.Tasks
			if res.Elapsed > elapsed {
				elapsed = res.Elapsed
			}
		}
		fmt.Fprintf(out, "%-8d %-14d %-12s %-16.02f\n", r.Threads, tasks, elapsed.Round(time.Millisecond), r.Throughput)
	}
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("metrics up addr=%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != http.ErrServerClosed {
		return err
	}
	return nil
}

func kindList() string {
	var names []string
	for _, k := range mutex.Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, "|")
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
