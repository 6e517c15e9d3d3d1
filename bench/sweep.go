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
 * @Time   : 2020/7/10 11:02 上午
 * @Author : liangc
 *************************************************************************/

package bench

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/cc14514/go-lock-contention/contention"
	"github.com/cc14514/go-lock-contention/mutex"
	"github.com/cc14514/go-lock-contention/obs"
	"github.com/cc14514/go-lock-contention/store"
)

// Runner runs sweeps. Metrics and Store are optional.
type Runner struct {
	Registry *mutex.Registry
	Logger   *obs.Logger
	Metrics  *obs.Metrics
	Store    *store.DB
}

func NewRunner(logger *obs.Logger) *Runner {
	return &Runner{
		Registry: mutex.NewRegistry(),
		Logger:   logger,
	}
}

// Sweep runs the simulator once per thread count of cfg, in order. ctx is
// checked between runs only; a running burst is never interrupted.
func (r *Runner) Sweep(ctx context.Context, cfg Config) ([]store.Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	var (
		runs []store.Run
		base float64 // single thread throughput, if measured
	)
	for _, threads := range cfg.Threads {
		if err := ctx.Err(); err != nil {
			return runs, err
		}
		run, err := r.step(ctx, cfg, threads)
		if err != nil {
			return runs, err
		}
		if threads == 1 {
			base = run.Throughput
		}
		fields := map[string]interface{}{
			"msg":        "run done",
			"run":        run.ID,
			"lock":       string(cfg.Lock),
			"threads":    threads,
			"throughput": run.Throughput,
		}
		if base > 0 {
			fields["scaling"] = run.Throughput / (float64(threads) * base)
		}
		r.Logger.Info(fields)
		runs = append(runs, *run)
	}
	return runs, nil
}

func (r *Runner) step(ctx context.Context, cfg Config, threads int) (*store.Run, error) {
	lock := string(cfg.Lock)
	m, err := r.Registry.Get(cfg.Lock, cfg.LockName)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	results, err := contention.RunParallel(m, cfg.Params(), threads)
	if err != nil {
		if errors.Is(err, mutex.ErrPoisoned) || m.Poisoned() {
			r.Registry.Clean(cfg.Lock, cfg.LockName)
		}
		if r.Metrics != nil {
			r.Metrics.Failure(lock)
		}
		r.Logger.Error(map[string]interface{}{
			"msg":     "run failed",
			"lock":    lock,
			"threads": threads,
			"error":   err.Error(),
		})
		return nil, err
	}

	sum := contention.Summarize(results)
	run := &store.Run{
		ID:         uuid.NewString(),
		StartedAt:  started,
		Lock:       lock,
		Params:     cfg.Params(),
		Threads:    threads,
		Throughput: sum.Throughput,
		Results:    results,
	}
	if r.Metrics != nil {
		for _, res := range results {
			r.Metrics.Worker(lock, res.Held, res.Tasks-res.Held, res.Elapsed)
		}
		r.Metrics.Run(lock, threads, sum.Throughput)
	}
	if r.Store != nil {
		if err := r.Store.SaveRun(ctx, run); err != nil {
			return nil, err
		}
	}
	return run, nil
}
