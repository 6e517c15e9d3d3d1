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
 * @Time   : 2020/7/7 11:10 上午
 * @Author : liangc
 *************************************************************************/

package contention

import (
	"fmt"
	"testing"
	"time"

	"github.com/cc14514/go-lock-contention/mutex"
)

func TestRunParallel(t *testing.T) {
	for _, kind := range mutex.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			m, err := mutex.New(kind)
			if err != nil {
				t.Fatal(err)
			}
			p := Params{UnlockRate: 1.0 / 2.0, LockRate: 1.0 / 2.0, Budget: 100 * time.Millisecond, Seed: 11}
			res, err := RunParallel(m, p, 3)
			if err != nil {
				t.Fatal(err)
			}
			if len(res) != 3 {
				t.Fatal("results", len(res))
			}
			for i, r := range res {
				if r.Elapsed <= p.Budget {
					t.Fatal("worker", i, "stopped early", r.Elapsed)
				}
			}
			s := Summarize(res)
			fmt.Println(kind, "tasks:", s.Tasks, "throughput:", s.Throughput, "held share:", s.HeldShare())
		})
	}
}

func TestContentionLowersThroughput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long running contention runs")
	}
	const threads = 4
	p := Params{UnlockRate: 1.0 / 64, LockRate: 1.0 / 64, Budget: time.Second, Seed: 21}

	single, err := Run(newLock(t), p)
	if err != nil {
		t.Fatal(err)
	}
	res, err := RunParallel(newLock(t), p, threads)
	if err != nil {
		t.Fatal(err)
	}
	s := Summarize(res)
	for _, r := range res {
		printResult(r)
	}
	fmt.Printf("single %.02f tasks/s, %d threads %.02f tasks/s\n", single.Throughput(), threads, s.Throughput)
	if s.Throughput >= threads*single.Throughput() {
		t.Fatalf("aggregate %v not below %d x single %v", s.Throughput, threads, single.Throughput())
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Result{
		{Tasks: 10, Held: 4, Elapsed: time.Second},
		{Tasks: 30, Held: 6, Elapsed: 2 * time.Second},
	})
	if s.Threads != 2 || s.Tasks != 40 || s.Held != 10 || s.MaxElapsed != 2*time.Second {
		t.Fatalf("%+v", s)
	}
	if s.Throughput != 20 || s.HeldShare() != 0.25 {
		t.Fatalf("%+v", s)
	}
	if s := Summarize(nil); s.Throughput != 0 || s.MaxElapsed != 0 {
		t.Fatalf("%+v", s)
	}
}

func TestSlowest(t *testing.T) {
	tests := []struct {
		elapsed []time.Duration
		want    int
	}{
		{nil, -1},
		{[]time.Duration{0}, 0},
		{[]time.Duration{3, 1, 2}, 0},
		{[]time.Duration{1, 3, 3}, 1},
		{[]time.Duration{1, 2, 5}, 2},
	}
	for _, test := range tests {
		results := make([]Result, len(test.elapsed))
		for i, e := range test.elapsed {
			results[i].Elapsed = e
		}
		if got := slowest(results); got != test.want {
			t.Fatalf("%v : got %d want %d", test.elapsed, got, test.want)
		}
	}
}

func BenchmarkBurst(b *testing.B) {
	rng := Params{Seed: 1}.source(0)
	for i := 0; i < b.N; i++ {
		burst(rng, 64)
	}
}
