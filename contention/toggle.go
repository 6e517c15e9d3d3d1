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
 * @Time   : 2020/7/6 2:15 下午
 * @Author : liangc
 *************************************************************************/

// Package contention measures how contention on a shared lock, rather than
// the cost of taking it, limits throughput.
//
// A worker alternates between holding the lock and running without it. The
// number of work units done in each phase is the rounded time until the next
// event of a Poisson process: the unlock rate drives how long the lock is
// held, the lock rate how long it stays free. The worker stops at the first
// phase boundary after its budget has run out, so a run overshoots the budget
// by up to one burst.
package contention

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/cc14514/go-lock-contention/mutex"
	"github.com/cc14514/go-lock-contention/poisson"
)

var ErrInvalidBudget = errors.New("budget must not be negative")

// Phase is the side of the lock a worker is on.
type Phase uint8

const (
	Holding Phase = iota
	Released
)

func (p Phase) String() string {
	if p == Holding {
		return "holding"
	}
	return "released"
}

func (p Phase) next() Phase {
	if p == Holding {
		return Released
	}
	return Holding
}

// Params of a run. Rates are in events per work unit.
type Params struct {
	UnlockRate float64 // drives how long the lock is held
	LockRate   float64 // drives how long the lock stays free
	Budget     time.Duration
	Seed       int64 // zero seeds from the clock
}

func (p Params) Validate() error {
	if err := poisson.CheckRate(p.UnlockRate); err != nil {
		return fmt.Errorf("unlock rate : %w", err)
	}
	if err := poisson.CheckRate(p.LockRate); err != nil {
		return fmt.Errorf("lock rate : %w", err)
	}
	if p.Budget < 0 {
		return fmt.Errorf("%w : %v", ErrInvalidBudget, p.Budget)
	}
	return nil
}

func (p Params) source(worker int) *rand.Rand {
	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return poisson.NewSource(seed + int64(worker))
}

// Result of one worker.
type Result struct {
	Tasks   uint64 // work units completed
	Held    uint64 // of which done while holding the lock
	Toggles uint64 // phases completed
	Elapsed time.Duration
	Sum     uint64 // checksum of the work done
}

// Throughput is tasks per second.
func (r Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Tasks) / r.Elapsed.Seconds()
}

// Run toggles m on the calling goroutine until p.Budget is spent.
func Run(m *mutex.Mutex, p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	return run(m, p, p.source(0))
}

// Toggle is Run with the parameters spelled out.
func Toggle(m *mutex.Mutex, unlockRate, lockRate float64, budget time.Duration) (Result, error) {
	return Run(m, Params{UnlockRate: unlockRate, LockRate: lockRate, Budget: budget})
}

func run(m *mutex.Mutex, p Params, rng *rand.Rand) (Result, error) {
	// rates are validated by the caller
	unlock, _ := poisson.New(p.UnlockRate, rng)
	lock, _ := poisson.New(p.LockRate, rng)

	var (
		res   Result
		phase = Holding
		start = time.Now()
	)
	for {
		if elapsed := time.Since(start); elapsed > p.Budget {
			res.Elapsed = elapsed
			return res, nil
		}

		switch phase {
		case Holding:
			tasks := round(unlock.Next())
			if err := m.Do(func() { res.Sum ^= burst(rng, tasks) }); err != nil {
				res.Elapsed = time.Since(start)
				return res, err
			}
			res.Tasks += tasks
			res.Held += tasks
		case Released:
			tasks := round(lock.Next())
			res.Sum ^= burst(rng, tasks)
			res.Tasks += tasks
		}
		res.Toggles++
		phase = phase.next()
	}
}

// round is floor(x+0.5) for the non-negative samples of the generator.
func round(x float64) uint64 {
	x = math.Floor(x + 0.5)
	if x >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(x)
}
