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
 * @Time   : 2020/7/3 10:48 上午
 * @Author : liangc
 *************************************************************************/

package mutex

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sasha-s/go-deadlock"
)

var ErrUnknownKind = errors.New("unknown lock kind")

// Kind names a lock implementation.
type Kind string

const (
	KindSync     Kind = "sync"     // sync.Mutex
	KindSpin     Kind = "spin"     // CAS spinlock
	KindTicket   Kind = "ticket"   // FIFO ticket lock
	KindChan     Kind = "chan"     // one slot channel
	KindDeadlock Kind = "deadlock" // go-deadlock, reports waits longer than its timeout
	KindCustom   Kind = "custom"   // caller supplied, see Wrap
)

var kinds = []Kind{KindSync, KindSpin, KindTicket, KindChan, KindDeadlock}

// Kinds lists the kinds NewLocker can build.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w : %q", ErrUnknownKind, s)
}

func NewLocker(kind Kind) (sync.Locker, error) {
	switch kind {
	case KindSync:
		return new(sync.Mutex), nil
	case KindSpin:
		return new(SpinLock), nil
	case KindTicket:
		return new(TicketLock), nil
	case KindChan:
		return NewChanLock(), nil
	case KindDeadlock:
		return new(deadlock.Mutex), nil
	}
	return nil, fmt.Errorf("%w : %q", ErrUnknownKind, kind)
}
