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
 * @Time   : 2020/7/10 10:15 上午
 * @Author : liangc
 *************************************************************************/

// Package bench sweeps the contention simulator over thread counts and
// reports, records and stores the outcome.
package bench

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"github.com/cc14514/go-lock-contention/contention"
	"github.com/cc14514/go-lock-contention/mutex"
)

type Config struct {
	Lock       mutex.Kind
	LockName   string // runs naming the same lock share it
	UnlockRate float64
	LockRate   float64
	Budget     time.Duration
	Threads    []int
	Seed       int64 // zero seeds from the clock
}

func DefaultConfig() Config {
	return Config{
		Lock:       mutex.KindSync,
		LockName:   "shared",
		UnlockRate: 1.0 / 2.0,
		LockRate:   1.0 / 2.0,
		Budget:     3 * time.Second,
		Threads:    []int{1, 2, 4},
	}
}

func (c Config) Params() contention.Params {
	return contention.Params{
		UnlockRate: c.UnlockRate,
		LockRate:   c.LockRate,
		Budget:     c.Budget,
		Seed:       c.Seed,
	}
}

func (c Config) Validate() error {
	if _, err := mutex.ParseKind(string(c.Lock)); err != nil {
		return err
	}
	if c.LockName == "" {
		return errors.New("lock name is required")
	}
	if len(c.Threads) == 0 {
		return errors.New("no thread counts")
	}
	for _, n := range c.Threads {
		if n < 1 {
			return fmt.Errorf("%w : %d", contention.ErrInvalidThreads, n)
		}
	}
	return c.Params().Validate()
}

// ParseThreads parses a comma separated list of thread counts, e.g. "1,2,4".
// The result is sorted and free of duplicates.
func ParseThreads(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("thread count %q: %w", f, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("%w : %d", contention.ErrInvalidThreads, n)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, errors.New("no thread counts")
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
