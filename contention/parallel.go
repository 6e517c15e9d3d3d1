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
 * @Time   : 2020/7/6 3:20 下午
 * @Author : liangc
 *************************************************************************/

package contention

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/cc14514/go-lock-contention/mutex"
	"github.com/cc14514/go-lock-contention/threadpool"
)

var ErrInvalidThreads = errors.New("thread count must be at least 1")

// RunParallel runs threads workers on m, each on its own OS thread with its
// own random source (seeded Seed+i), and returns one result per worker. The
// workers share nothing but m; each one times itself. If any worker fails
// or panics the error is returned and no results are.
func RunParallel(m *mutex.Mutex, p Params, threads int) ([]Result, error) {
	if threads < 1 {
		return nil, fmt.Errorf("%w : %d", ErrInvalidThreads, threads)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Seed == 0 {
		p.Seed = time.Now().UnixNano()
	}

	results := make([]Result, threads)
	err := threadpool.Run(threads, func(i int) error {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		res, err := run(m, p, p.source(i))
		if err != nil {
			return fmt.Errorf("worker %d : %w", i, err)
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ToggleParallel is RunParallel with the parameters spelled out.
func ToggleParallel(m *mutex.Mutex, unlockRate, lockRate float64, budget time.Duration, threads int) ([]Result, error) {
	return RunParallel(m, Params{UnlockRate: unlockRate, LockRate: lockRate, Budget: budget}, threads)
}
