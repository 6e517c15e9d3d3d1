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
 * @Time   : 2020/7/3 10:21 上午
 * @Author : liangc
 *************************************************************************/

// Package mutex provides the shared exclusive lock the contention workers
// fight over, and the lock implementations it can be backed by.
package mutex

import (
	"errors"
	"sync"
	"sync/atomic"
)

var ErrPoisoned = errors.New("lock poisoned by a panicking holder")

// Mutex is an exclusive lock that is poisoned when a holder panics inside Do.
// Once poisoned every later acquisition fails with ErrPoisoned.
type Mutex struct {
	l        sync.Locker
	kind     Kind
	poisoned atomic.Bool
}

// New returns a Mutex backed by a lock of the given kind.
func New(kind Kind) (*Mutex, error) {
	l, err := NewLocker(kind)
	if err != nil {
		return nil, err
	}
	return &Mutex{l: l, kind: kind}, nil
}

// Wrap returns a Mutex backed by l.
func Wrap(l sync.Locker) *Mutex {
	return &Mutex{l: l, kind: KindCustom}
}

func (m *Mutex) Kind() Kind { return m.kind }

func (m *Mutex) Poisoned() bool { return m.poisoned.Load() }

// Do runs fn while holding the lock. The lock is released on every path;
// a holder that does not return normally (panic, runtime.Goexit) poisons the
// lock and a panic is re-raised.
func (m *Mutex) Do(fn func()) (err error) {
	m.l.Lock()
	if m.poisoned.Load() {
		m.l.Unlock()
		return ErrPoisoned
	}
	done := false
	defer func() {
		if done {
			return
		}
		r := recover()
		m.poisoned.Store(true)
		m.l.Unlock()
		if r != nil {
			panic(r)
		}
		// panic(nil) was swallowed by recover
		err = ErrPoisoned
	}()
	fn()
	done = true
	m.l.Unlock()
	return nil
}
