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
 * @Time   : 2020/7/8 4:20 下午
 * @Author : liangc
 *************************************************************************/

// Package obs holds the logging and metrics of the benchmark driver.
package obs

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	RunsTotal     *prometheus.CounterVec   // lock
	TasksTotal    *prometheus.CounterVec   // lock, phase=holding|released
	WorkerSeconds *prometheus.HistogramVec // lock
	Throughput    *prometheus.GaugeVec     // lock, threads
	FailuresTotal *prometheus.CounterVec   // lock
}

// NewMetrics builds the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lockbench_runs_total",
				Help: "Total parallel runs completed",
			},
			[]string{"lock"},
		),
		TasksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lockbench_tasks_total",
				Help: "Work units completed by phase",
			},
			[]string{"lock", "phase"},
		),
		WorkerSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lockbench_worker_seconds",
				Help:    "Elapsed wall clock time of a worker",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms .. ~25s
			},
			[]string{"lock"},
		),
		Throughput: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "lockbench_throughput",
				Help: "Aggregate work units per second of the last run",
			},
			[]string{"lock", "threads"},
		),
		FailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lockbench_failures_total",
				Help: "Runs that ended with an error",
			},
			[]string{"lock"},
		),
	}

	reg.MustRegister(
		m.RunsTotal,
		m.TasksTotal,
		m.WorkerSeconds,
		m.Throughput,
		m.FailuresTotal,
	)

	return m
}

// Worker records the outcome of one worker.
func (m *Metrics) Worker(lock string, held, released uint64, elapsed time.Duration) {
	m.TasksTotal.WithLabelValues(lock, "holding").Add(float64(held))
	m.TasksTotal.WithLabelValues(lock, "released").Add(float64(released))
	m.WorkerSeconds.WithLabelValues(lock).Observe(elapsed.Seconds())
}

// Run records a completed parallel run.
func (m *Metrics) Run(lock string, threads int, throughput float64) {
	m.RunsTotal.WithLabelValues(lock).Inc()
	m.Throughput.WithLabelValues(lock, strconv.Itoa(threads)).Set(throughput)
}

func (m *Metrics) Failure(lock string) {
	m.FailuresTotal.WithLabelValues(lock).Inc()
}
