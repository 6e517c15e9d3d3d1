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
 * @Time   : 2020/7/7 9:45 上午
 * @Author : liangc
 *************************************************************************/

package contention

import (
	"time"
)

// Summary aggregates the results of one parallel run.
type Summary struct {
	Threads    int
	Tasks      uint64
	Held       uint64
	MaxElapsed time.Duration
	Throughput float64 // Tasks / MaxElapsed, per second
}

func Summarize(results []Result) Summary {
	s := Summary{Threads: len(results)}
	for _, r := range results {
		s.Tasks += r.Tasks
		s.Held += r.Held
	}
	if i := slowest(results); i >= 0 {
		s.MaxElapsed = results[i].Elapsed
	}
	if s.MaxElapsed > 0 {
		s.Throughput = float64(s.Tasks) / s.MaxElapsed.Seconds()
	}
	return s
}

// slowest returns the index of the longest running worker, -1 for none.
func slowest(results []Result) int {
	idx := -1
	for i, r := range results {
		if idx < 0 || r.Elapsed > results[idx].Elapsed {
			idx = i
		}
	}
	return idx
}

// HeldShare is the fraction of work done while holding the lock.
func (s Summary) HeldShare() float64 {
	if s.Tasks == 0 {
		return 0
	}
	return float64(s.Held) / float64(s.Tasks)
}
