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
 * @Time   : 2020/7/3 11:05 上午
 * @Author : liangc
 *************************************************************************/

package mutex

import (
	"runtime"
	"sync/atomic"
)

// SpinLock busy waits on a CAS, yielding the processor between attempts.
type SpinLock struct {
	state atomic.Int32
}

func (m *SpinLock) Lock() {
	for !m.state.CompareAndSwap(0, 1) {
		runtime.Gosched()
	}
}

func (m *SpinLock) Unlock() { m.state.Store(0) }

// TicketLock grants the lock in arrival order.
type TicketLock struct {
	ticket atomic.Uint32
	turn   atomic.Uint32
}

func (l *TicketLock) Lock() {
	my := l.ticket.Add(1) - 1
	for l.turn.Load() != my {
		runtime.Gosched()
	}
}

func (l *TicketLock) Unlock() { l.turn.Add(1) }

// ChanLock is a lock made of a channel with a single slot; holding the lock
// means owning the slot.
type ChanLock struct {
	ch chan struct{}
}

func NewChanLock() *ChanLock {
	return &ChanLock{ch: make(chan struct{}, 1)}
}

func (c *ChanLock) Lock() { c.ch <- struct{}{} }

func (c *ChanLock) Unlock() {
	select {
	case <-c.ch:
	default:
		panic("mutex: unlock of unlocked ChanLock")
	}
}
