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
 * @Time   : 2020/7/7 10:30 上午
 * @Author : liangc
 *************************************************************************/

package contention

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/cc14514/go-lock-contention/mutex"
	"github.com/cc14514/go-lock-contention/poisson"
	"github.com/cc14514/go-lock-contention/threadpool"
)

func budget() time.Duration {
	if testing.Short() {
		return 200 * time.Millisecond
	}
	return 3 * time.Second
}

func newLock(t testing.TB) *mutex.Mutex {
	m, err := mutex.New(mutex.KindSync)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func printResult(r Result) {
	fmt.Println("Tasks:", r.Tasks, "held:", r.Held, "toggles:", r.Toggles)
	fmt.Printf("Duration: %.02f s\n", r.Elapsed.Seconds())
	fmt.Printf("Tasks/sec: %.02f\n", r.Throughput())
}

func TestPhase(t *testing.T) {
	if Holding.next() != Released || Released.next() != Holding {
		t.Fatal("phases must alternate")
	}
	if Holding.String() != "holding" || Released.String() != "released" {
		t.Fatal(Holding, Released)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want uint64
	}{
		{0, 0},
		{0.49, 0},
		{0.5, 1},
		{1.49, 1},
		{2.5, 3},
		{1e6 + 0.2, 1e6},
		{math.Inf(1), math.MaxUint64},
	}
	for _, test := range tests {
		if got := round(test.in); got != test.want {
			t.Fatalf("round(%v) = %d want %d", test.in, got, test.want)
		}
	}
}

func TestBurstDeterministic(t *testing.T) {
	a := burst(poisson.NewSource(3), 1000)
	b := burst(poisson.NewSource(3), 1000)
	if a != b {
		t.Fatal(a, b)
	}
	if burst(poisson.NewSource(3), 0) != 0 {
		t.Fatal("empty burst must not do work")
	}
}

func TestRunNeverLock(t *testing.T) {
	m := newLock(t)
	// unlock after about every task, lock rarely
	res, err := Toggle(m, 1.0/1.0, 1.0/10000000.0, budget())
	if err != nil {
		t.Fatal(err)
	}
	printResult(res)
	if res.Elapsed <= budget() {
		t.Fatal("returned before the budget was spent", res.Elapsed)
	}
	if res.Held > res.Tasks {
		t.Fatal(res.Held, res.Tasks)
	}
}

func TestRun(t *testing.T) {
	m := newLock(t)
	p := Params{UnlockRate: 1.0 / 2.0, LockRate: 1.0 / 2.0, Budget: budget(), Seed: 1}
	res, err := Run(m, p)
	if err != nil {
		t.Fatal(err)
	}
	printResult(res)
	if res.Elapsed <= p.Budget {
		t.Fatal("returned before the budget was spent", res.Elapsed)
	}
	if res.Tasks == 0 || res.Toggles == 0 {
		t.Fatal("no work done", res)
	}
	if m.Poisoned() {
		t.Fatal("lock poisoned")
	}
}

func TestRunZeroBudget(t *testing.T) {
	res, err := Run(newLock(t), Params{UnlockRate: 1, LockRate: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Elapsed <= 0 {
		t.Fatal(res.Elapsed)
	}
}

func TestRunZeroTaskPhases(t *testing.T) {
	// with huge rates nearly every phase rounds to zero tasks
	res, err := Run(newLock(t), Params{UnlockRate: 1e9, LockRate: 1e9, Budget: 20 * time.Millisecond, Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	if res.Toggles == 0 {
		t.Fatal("no phases ran")
	}
	if res.Tasks != 0 {
		t.Fatal("unexpected work", res.Tasks)
	}
}

func TestRunInvalidParams(t *testing.T) {
	m := newLock(t)
	tests := []struct {
		p    Params
		want error
	}{
		{Params{UnlockRate: 0, LockRate: 1}, poisson.ErrInvalidRate},
		{Params{UnlockRate: 1, LockRate: -1}, poisson.ErrInvalidRate},
		{Params{UnlockRate: math.NaN(), LockRate: 1}, poisson.ErrInvalidRate},
		{Params{UnlockRate: 1, LockRate: math.Inf(1)}, poisson.ErrInvalidRate},
		{Params{UnlockRate: 1, LockRate: 1, Budget: -time.Second}, ErrInvalidBudget},
	}
	for _, test := range tests {
		if _, err := Run(m, test.p); !errors.Is(err, test.want) {
			t.Fatalf("%+v : err = %v want %v", test.p, err, test.want)
		}
		if _, err := RunParallel(m, test.p, 2); !errors.Is(err, test.want) {
			t.Fatalf("%+v : err = %v want %v", test.p, err, test.want)
		}
	}
	if _, err := RunParallel(m, Params{UnlockRate: 1, LockRate: 1}, 0); !errors.Is(err, ErrInvalidThreads) {
		t.Fatal(err)
	}
}

func TestRunPoisoned(t *testing.T) {
	m := newLock(t)
	func() {
		defer func() { _ = recover() }()
		_ = m.Do(func() { panic("holder died") })
	}()
	p := Params{UnlockRate: 0.5, LockRate: 0.5, Budget: time.Second}
	if _, err := Run(m, p); !errors.Is(err, mutex.ErrPoisoned) {
		t.Fatal(err)
	}
	res, err := RunParallel(m, p, 3)
	if !errors.Is(err, mutex.ErrPoisoned) {
		t.Fatal(err)
	}
	if res != nil {
		t.Fatal("partial results returned", res)
	}
}

type brokenLock struct{ sync.Mutex }

func (l *brokenLock) Lock() { panic("broken lock") }

func TestRunParallelPanic(t *testing.T) {
	m := mutex.Wrap(new(brokenLock))
	res, err := RunParallel(m, Params{UnlockRate: 0.5, LockRate: 0.5, Budget: time.Second}, 2)
	var pe *threadpool.PanicError
	if !errors.As(err, &pe) {
		t.Fatal(err)
	}
	if res != nil {
		t.Fatal("partial results returned", res)
	}
}
