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
 * @Time   : 2020/6/11 10:50 上午
 * @Author : liangc
 *************************************************************************/

// Package threadpool runs groups of workers and joins them.
package threadpool

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
)

// PanicError is returned by Run for a worker that panicked.
type PanicError struct {
	Worker int
	Value  interface{}
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker %d panic : %v", e.Worker, e.Value)
}

// Unwrap exposes a panic value that is itself an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

func Spawn(size int, fn func(int)) *sync.WaitGroup {
	wg := new(sync.WaitGroup)
	for i := 0; i < size; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fn(i)
		}(i)
	}
	return wg
}

// Run starts size workers, releases them together once all are spawned and
// waits for every one of them. The errors of all workers are joined, a
// panicking worker contributes a *PanicError.
func Run(size int, fn func(int) error) error {
	if size < 1 {
		return fmt.Errorf("bad size : %d", size)
	}
	var (
		errs  = make([]error, size)
		start = make(chan struct{})
	)
	wg := Spawn(size, func(i int) {
		defer func() {
			if r := recover(); r != nil {
				errs[i] = &PanicError{Worker: i, Value: r, Stack: debug.Stack()}
			}
		}()
		<-start
		errs[i] = fn(i)
	})
	close(start)
	wg.Wait()
	return errors.Join(errs...)
}
