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

package uam

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/apache/hadoop-yarn-uam-client/pkg/log"
)

// requestQueue is a FIFO, blocking-on-take, effectively unbounded buffer
// of queuedItems. Enqueue never blocks: it is backed by a very large
// buffered channel rather than an actually-unbounded structure, which is
// enough headroom that a caller queuing requests faster than the worker
// drains them sees backpressure only under pathological load, matching
// the "effectively unbounded" framing of spec'd behavior. Depth is
// tracked with an atomic counter rather than len(chan) so
// pending_request_count stays accurate across concurrent enqueue/take.
type requestQueue struct {
	name    string
	items   chan queuedItem
	stopped chan struct{}
	depth   atomic.Int64
}

const queueCapacity = 1 << 16

func newRequestQueue(name string) *requestQueue {
	return &requestQueue{
		name:    name,
		items:   make(chan queuedItem, queueCapacity),
		stopped: make(chan struct{}),
	}
}

// enqueue never blocks meaningfully: allocate_async must not drop a
// request even when no proxy exists yet, and must not panic once the
// worker has stopped -- a request enqueued after finish/force_kill simply
// sits in the buffer, queued but never delivered.
func (q *requestQueue) enqueue(item queuedItem) {
	q.items <- item
	depth := q.depth.Add(1)
	log.Logger().Debug("enqueued allocate request",
		zap.String("queue", q.name),
		zap.Int64("depth", depth))
}

// take blocks until an item is available or the queue has been stopped, in
// which case ok is false. Once stopped, take never returns an item again,
// even if some remain buffered.
func (q *requestQueue) take() (queuedItem, bool) {
	select {
	case <-q.stopped:
		return queuedItem{}, false
	default:
	}
	select {
	case item := <-q.items:
		q.depth.Add(-1)
		return item, true
	case <-q.stopped:
		return queuedItem{}, false
	}
}

// stop unblocks any in-progress or future take. Safe to call more than
// once; only the first call has effect.
func (q *requestQueue) stop() {
	select {
	case <-q.stopped:
	default:
		close(q.stopped)
	}
}

func (q *requestQueue) pendingCount() int {
	return int(q.depth.Load())
}
