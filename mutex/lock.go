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
 * @Time   : 2020/6/11 10:55 上午
 * @Author : liangc
 *************************************************************************/

package mutex

import (
	"crypto/sha1"
	"encoding/hex"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// Registry hands out shared locks by kind and name, every caller asking for
// the same pair contends on the same Mutex.
type Registry struct {
	locks  *sync.Map
	kcache *lru.Cache
}

func NewRegistry() *Registry {
	cache, _ := lru.New(1024)
	return &Registry{
		locks:  new(sync.Map),
		kcache: cache,
	}
}

// Get returns the lock registered under kind and name, creating it on first use.
func (r *Registry) Get(kind Kind, name string) (*Mutex, error) {
	key := r.hash(kind, name)
	if v, ok := r.locks.Load(key); ok {
		return v.(*Mutex), nil
	}
	m, err := New(kind)
	if err != nil {
		return nil, err
	}
	v, _ := r.locks.LoadOrStore(key, m)
	return v.(*Mutex), nil
}

// 清除一个旧的锁，下一次 Get 会得到新的锁,
// 锁被 poison 以后用 Clean 换掉它
func (r *Registry) Clean(kind Kind, name string) {
	if kind == "" || name == "" {
		return
	}
	r.locks.Delete(r.hash(kind, name))
}

// hash keys the lock map by the sha1 of kind/name; the lru bounds the
// hashing cost to the first lookup of a pair.
func (r *Registry) hash(kind Kind, name string) string {
	k := string(kind) + "/" + name
	v, ok := r.kcache.Get(k)
	if ok {
		return v.(string)
	}
	s1 := sha1.New()
	s1.Write([]byte(k))
	hash := hex.EncodeToString(s1.Sum(nil))
	r.kcache.Add(k, hash)
	return hash
}
