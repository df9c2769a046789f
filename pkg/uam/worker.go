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
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"

	"github.com/apache/hadoop-yarn-uam-client/pkg/log"
	"github.com/apache/hadoop-yarn-uam-client/pkg/trace"
)

// heartbeatWorker is the single background task draining the request
// queue, issuing allocate RPCs via the re-register helper, and rolling
// forward lastResponseID and the proxy principal's token. A dedicated
// Go channel plus a keepRunning flag replace the source's dedicated
// thread and blocking queue; shutdown is a stop flag plus a queue close,
// not a thread interrupt.
type heartbeatWorker struct {
	queue       *requestQueue
	master      MasterProtocol
	helper      *reRegisterHelper
	principal   *ProxyPrincipal
	attemptID   AttemptId
	tracer      opentracing.Tracer
	metrics     Metrics
	warnLogger  rateLimitedLog

	keepRunning atomic.Bool
	done        chan struct{}

	lock           sync.Mutex
	lastResponseID int32
}

type rateLimitedLog interface {
	Warn(msg string, fields ...zap.Field)
}

func newHeartbeatWorker(queue *requestQueue, master MasterProtocol, helper *reRegisterHelper, principal *ProxyPrincipal, attemptID AttemptId, tracer opentracing.Tracer, metrics Metrics, warnLogger rateLimitedLog) *heartbeatWorker {
	w := &heartbeatWorker{
		queue:      queue,
		master:     master,
		helper:     helper,
		principal:  principal,
		attemptID:  attemptID,
		tracer:     tracer,
		metrics:    metrics,
		warnLogger: warnLogger,
		done:       make(chan struct{}),
	}
	w.keepRunning.Store(true)
	return w
}

// start launches the worker's run loop as a daemon goroutine: a panic
// inside run is recovered and reported by the uncaught-error reporter so a
// single bad iteration, or even a crash in the loop body, never brings
// down the host process.
func (w *heartbeatWorker) start() {
	go func() {
		defer w.reportUncaughtError()
		defer close(w.done)
		w.run()
	}()
}

func (w *heartbeatWorker) reportUncaughtError() {
	if r := recover(); r != nil {
		log.Logger().Error("heartbeat worker task died from an unrecoverable error",
			zap.String("attemptId", w.attemptID.String()),
			zap.Any("panic", r))
	}
}

func (w *heartbeatWorker) run() {
	for w.keepRunning.Load() {
		item, ok := w.queue.take()
		if !ok || !w.keepRunning.Load() {
			return
		}
		if w.metrics != nil {
			w.metrics.SetPendingRequests(w.queue.pendingCount())
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Logger().Warn("heartbeat iteration failed, continuing heartbeat loop",
						zap.String("attemptId", w.attemptID.String()),
						zap.Any("panic", r))
				}
			}()
			w.process(item)
		}()
	}
}

func (w *heartbeatWorker) process(item queuedItem) {
	item.request.ResponseID = w.currentResponseID()

	span, ctx := trace.StartRPCSpan(context.Background(), w.tracer, "allocate", w.attemptID.String())
	start := time.Now()

	var resp *AllocateResponse
	err := w.helper.call(ctx, func() error {
		r, allocErr := w.master.Allocate(ctx, item.request)
		if allocErr != nil {
			return allocErr
		}
		resp = r
		return nil
	})

	trace.FinishRPCSpan(span, err)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		outcome := "failure"
		if isSessionLost(err) {
			outcome = "session-lost"
		}
		if w.metrics != nil {
			w.metrics.ObserveAllocate(outcome, elapsed)
		}
		if w.warnLogger != nil {
			w.warnLogger.Warn("allocate failed, continuing heartbeat loop",
				zap.String("attemptId", w.attemptID.String()),
				zap.Error(err))
		}
		item.callback(nil, err)
		return
	}

	if w.metrics != nil {
		w.metrics.ObserveAllocate("success", elapsed)
	}
	w.advanceResponseID(resp.ResponseID)
	if resp.RefreshedAMRMToken != nil {
		w.principal.UpdateToken(resp.RefreshedAMRMToken)
	}
	item.callback(resp, nil)
}

func (w *heartbeatWorker) currentResponseID() int32 {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.lastResponseID
}

func (w *heartbeatWorker) advanceResponseID(id int32) {
	w.lock.Lock()
	w.lastResponseID = id
	w.lock.Unlock()
	if w.metrics != nil {
		w.metrics.SetLastResponseID(id)
	}
}

// stop signals the run loop to exit and waits for the current (or next)
// take to unblock. finish and force_kill both call stop; queue contents
// queued afterwards are never drained.
func (w *heartbeatWorker) stop() {
	w.keepRunning.Store(false)
	w.queue.stop()
	<-w.done
}
