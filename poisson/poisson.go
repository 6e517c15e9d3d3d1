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
 * @Time   : 2020/7/2 3:12 下午
 * @Author : liangc
 *************************************************************************/

// Package poisson generates the random timings of a Poisson process.
//
// The time until the next event of a process with rate lambda is
// exponentially distributed; samples are drawn with the inverse CDF
// transform -ln(u)/lambda, u uniform in (0, 1].
package poisson

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

var ErrInvalidRate = errors.New("rate must be positive and finite")

// Source is a uniform random source on [0, 1). *rand.Rand satisfies it.
// A Source is owned by a single goroutine.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded source.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// CheckRate rejects rates that would yield negative, infinite or NaN intervals.
func CheckRate(lambda float64) error {
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) || lambda <= 0 {
		return fmt.Errorf("%w : %v", ErrInvalidRate, lambda)
	}
	return nil
}

// Rate returns the rate of a process seeing events events per span.
func Rate(events, span float64) float64 {
	return events / span
}

// RateOf is Rate with the span given as a duration; the result is per second.
func RateOf(events float64, span time.Duration) float64 {
	return Rate(events, span.Seconds())
}

// ProbWithin returns the probability that at least one event happens within
// horizon, i.e. the exponential CDF at horizon.
func ProbWithin(horizon, lambda float64) float64 {
	return 1 - math.Exp(-lambda*horizon)
}

// Sample draws the time until the next event.
func Sample(src Source, lambda float64) (float64, error) {
	if err := CheckRate(lambda); err != nil {
		return 0, err
	}
	return sample(src, lambda), nil
}

func sample(src Source, lambda float64) float64 {
	u := 1 - src.Float64() // (0, 1]
	return -math.Log(u) / lambda
}

// Generator draws intervals for a fixed, validated rate.
type Generator struct {
	lambda float64
	src    Source
}

func New(lambda float64, src Source) (*Generator, error) {
	if err := CheckRate(lambda); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errors.New("nil source")
	}
	return &Generator{lambda: lambda, src: src}, nil
}

// Next returns the time until the next event. Successive calls are
// independent.
func (g *Generator) Next() float64 {
	return sample(g.src, g.lambda)
}

func (g *Generator) Rate() float64 { return g.lambda }

// Mean is the expected interval, 1/lambda.
func (g *Generator) Mean() float64 { return 1 / g.lambda }
