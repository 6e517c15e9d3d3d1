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
 * @Time   : 2020/7/6 2:40 下午
 * @Author : liangc
 *************************************************************************/

package contention

import "math/rand"

const (
	m1 = 0x5555555555555555
	m2 = 0x3333333333333333
	m4 = 0x0f0f0f0f0f0f0f0f
)

// unit is one work unit. It must stay a call, the compiler may not fold
// a burst away.
//
//go:noinline
func unit(x uint64) uint64 {
	x -= (x >> 1) & m1
	x = (x & m2) + ((x >> 2) & m2)
	return (x + (x >> 4)) & m4
}

// burst runs n work units over fresh random input and returns their checksum.
func burst(rng *rand.Rand, n uint64) uint64 {
	var sum uint64
	for i := uint64(0); i < n; i++ {
		sum = sum*31 + unit(rng.Uint64())
	}
	return sum
}
