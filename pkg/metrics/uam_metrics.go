/*
 Licensed to the Apache Software Foundation (ASF) under one
 or more contributor license agreements.  See the NOTICE file
 distributed with this work for additional information
 regarding copyright ownership.  The ASF licenses this file
 to you under the Apache License, Version 2.0 (the
 "License"); you may not use this file except in compliance
 with the License.  You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "yarn"
	Subsystem = "uam_client"
)

// UAMMetrics exposes the counters and gauges a deployment scrapes to watch a
// single UnmanagedApplicationManager instance: how deep its request queue
// is, how the allocate RPC is performing, and how often the re-register
// helper has had to intervene. Modelled on SchedulerMetrics's use of
// per-instance prometheus vectors behind a lock.
type UAMMetrics struct {
	pendingRequests prometheus.Gauge
	allocateTotal   *prometheus.CounterVec
	allocateLatency prometheus.Histogram
	reRegisterTotal prometheus.Counter
	lastResponseID  prometheus.Gauge
	lock            sync.RWMutex
}

// NewUAMMetrics builds a fresh, unregistered metric set scoped to one
// attempt id so multiple UAM instances in the same process do not collide.
func NewUAMMetrics(attemptID string) *UAMMetrics {
	labels := prometheus.Labels{"attempt_id": attemptID}
	m := &UAMMetrics{
		pendingRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   Namespace,
			Subsystem:   Subsystem,
			Name:        "pending_requests",
			Help:        "Number of allocate requests queued but not yet delivered to the CRM.",
			ConstLabels: labels,
		}),
		allocateTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   Namespace,
			Subsystem:   Subsystem,
			Name:        "allocate_total",
			Help:        "Total allocate RPCs issued, by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		allocateLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   Namespace,
			Subsystem:   Subsystem,
			Name:        "allocate_latency_seconds",
			Help:        "Time spent in a single allocate RPC, including one re-register retry.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),
		reRegisterTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   Namespace,
			Subsystem:   Subsystem,
			Name:        "reregister_total",
			Help:        "Total number of times the re-register helper re-issued register_application_master after session loss.",
			ConstLabels: labels,
		}),
		lastResponseID: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   Namespace,
			Subsystem:   Subsystem,
			Name:        "last_response_id",
			Help:        "Most recent allocate response id observed by the heartbeat worker.",
			ConstLabels: labels,
		}),
	}
	return m
}

// Register registers all collectors against reg. Safe to call with
// prometheus.DefaultRegisterer; callers embedding several UAM instances
// should pass a dedicated registry to avoid label collisions on attempt id
// reuse across process restarts.
func (m *UAMMetrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{m.pendingRequests, m.allocateTotal, m.allocateLatency, m.reRegisterTotal, m.lastResponseID}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *UAMMetrics) SetPendingRequests(n int) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.pendingRequests.Set(float64(n))
}

func (m *UAMMetrics) ObserveAllocate(outcome string, seconds float64) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.allocateTotal.WithLabelValues(outcome).Inc()
	m.allocateLatency.Observe(seconds)
}

func (m *UAMMetrics) IncReRegister() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.reRegisterTotal.Inc()
}

func (m *UAMMetrics) SetLastResponseID(id int32) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.lastResponseID.Set(float64(id))
}
