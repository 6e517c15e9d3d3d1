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
 * @Time   : 2020/7/9 3:05 下午
 * @Author : liangc
 *************************************************************************/

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cc14514/go-lock-contention/contention"
)

// Run is one parallel run of a sweep.
type Run struct {
	ID         string
	StartedAt  time.Time
	Lock       string
	Params     contention.Params
	Threads    int
	Throughput float64
	Results    []contention.Result
}

// SaveRun stores r and its per worker results, assigning an id if r has none.
func (d *DB) SaveRun(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO runs(id, started_at_ns, lock_kind, unlock_rate, lock_rate, budget_ns, threads, seed, throughput)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		r.ID, r.StartedAt.UnixNano(), r.Lock, r.Params.UnlockRate, r.Params.LockRate,
		int64(r.Params.Budget), r.Threads, r.Params.Seed, r.Throughput,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for i, res := range r.Results {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO results(run_id, worker, tasks, held, toggles, elapsed_ns) VALUES(?, ?, ?, ?, ?, ?);`,
			r.ID, i, int64(res.Tasks), int64(res.Held), int64(res.Toggles), int64(res.Elapsed),
		); err != nil {
			return fmt.Errorf("insert result %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Results loads the per worker results of a run in worker order.
func (d *DB) Results(ctx context.Context, runID string) ([]contention.Result, error) {
	rows, err := d.QueryContext(ctx, `
SELECT tasks, held, toggles, elapsed_ns FROM results WHERE run_id = ? ORDER BY worker;`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contention.Result
	for rows.Next() {
		var tasks, held, toggles, elapsed int64
		if err := rows.Scan(&tasks, &held, &toggles, &elapsed); err != nil {
			return nil, err
		}
		out = append(out, contention.Result{
			Tasks:   uint64(tasks),
			Held:    uint64(held),
			Toggles: uint64(toggles),
			Elapsed: time.Duration(elapsed),
		})
	}
	return out, rows.Err()
}

// Runs lists the runs of a lock kind, oldest first.
func (d *DB) Runs(ctx context.Context, lock string) ([]Run, error) {
	rows, err := d.QueryContext(ctx, `
SELECT id, started_at_ns, unlock_rate, lock_rate, budget_ns, threads, seed, throughput
FROM runs WHERE lock_kind = ? ORDER BY started_at_ns, threads;`, lock)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r := Run{Lock: lock}
		var started, budget int64
		if err := rows.Scan(&r.ID, &started, &r.Params.UnlockRate, &r.Params.LockRate,
			&budget, &r.Threads, &r.Params.Seed, &r.Throughput); err != nil {
			return nil, err
		}
		r.StartedAt = time.Unix(0, started)
		r.Params.Budget = time.Duration(budget)
		out = append(out, r)
	}
	return out, rows.Err()
}
