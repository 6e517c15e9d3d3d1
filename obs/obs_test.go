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
 * @Time   : 2020/7/8 4:45 下午
 * @Author : liangc
 *************************************************************************/

package obs

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLoggerTo(&buf)
	lg.Info(map[string]interface{}{"msg": "run done", "threads": 4})
	lg.Error(nil)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatal("lines", len(lines))
	}
	var first map[string]interface{}
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatal(err)
	}
	if first["level"] != "info" || first["msg"] != "run done" || first["threads"] != float64(4) {
		t.Fatal(first)
	}
	if _, err := time.Parse(time.RFC3339Nano, first["ts"].(string)); err != nil {
		t.Fatal(err)
	}
	var second map[string]interface{}
	if err := json.Unmarshal(lines[1], &second); err != nil {
		t.Fatal(err)
	}
	if second["level"] != "error" {
		t.Fatal(second)
	}
}

func TestLoggerUnencodable(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerTo(&buf).Info(map[string]interface{}{"ch": make(chan int)})
	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["level"] != "error" {
		t.Fatal(got)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Worker("sync", 10, 30, time.Second)
	m.Worker("sync", 5, 5, 2*time.Second)
	m.Run("sync", 2, 25)
	m.Failure("spin")

	if v := testutil.ToFloat64(m.TasksTotal.WithLabelValues("sync", "holding")); v != 15 {
		t.Fatal("holding", v)
	}
	if v := testutil.ToFloat64(m.TasksTotal.WithLabelValues("sync", "released")); v != 35 {
		t.Fatal("released", v)
	}
	if v := testutil.ToFloat64(m.Throughput.WithLabelValues("sync", "2")); v != 25 {
		t.Fatal("throughput", v)
	}
	if v := testutil.ToFloat64(m.RunsTotal.WithLabelValues("sync")); v != 1 {
		t.Fatal("runs", v)
	}
	if v := testutil.ToFloat64(m.FailuresTotal.WithLabelValues("spin")); v != 1 {
		t.Fatal("failures", v)
	}
	if n := testutil.CollectAndCount(m.WorkerSeconds); n != 1 {
		t.Fatal("histograms", n)
	}
}
