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
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"

	"github.com/apache/hadoop-yarn-uam-client/pkg/common"
	"github.com/apache/hadoop-yarn-uam-client/pkg/lifecycle"
	"github.com/apache/hadoop-yarn-uam-client/pkg/locking"
	"github.com/apache/hadoop-yarn-uam-client/pkg/log"
	"github.com/apache/hadoop-yarn-uam-client/pkg/trace"
)

// Controller is the UAM client's public API. One instance per application
// attempt: construct it, call CreateAndRegister once, issue zero or more
// AllocateAsync calls, and end with Finish or ForceKill. There is no
// restart after a terminal call.
type Controller struct {
	config        *Config
	applicationID ApplicationId
	queueName     string
	submitter     Principal
	appNameSuffix string
	factory       ProxyFactory
	tracer        opentracing.Tracer
	metrics       Metrics

	lifecycle *lifecycle.Lifecycle

	lock            locking.RWMutex
	attemptID       *AttemptId
	proxyUser       *ProxyPrincipal
	masterProxy     MasterProtocol
	clientProxy     ClientProtocol
	registerRequest *RegisterRequest

	queue      *requestQueue
	worker     *heartbeatWorker
	warnLogger rateLimitedLog
}

// Option customizes Controller construction beyond the required
// arguments, in the manner of the corpus's functional-options pattern.
type Option func(*Controller)

func WithTracer(tracer opentracing.Tracer) Option {
	return func(c *Controller) { c.tracer = tracer }
}

func WithMetrics(metrics Metrics) Option {
	return func(c *Controller) { c.metrics = metrics }
}

// NewController validates its required arguments and builds an
// unregistered Controller. config, applicationID, and submitter must all
// be non-null/non-zero; queueName and appNameSuffix may be blank, in which
// case config.DefaultQueueName and a generated suffix are used.
func NewController(config *Config, applicationID ApplicationId, queueName string, submitter *Principal, appNameSuffix string, factory ProxyFactory, opts ...Option) (*Controller, error) {
	if config == nil {
		return nil, newError(InvalidArgument, "config must not be nil", nil)
	}
	if applicationID == (ApplicationId{}) {
		return nil, newError(InvalidArgument, "applicationID must not be zero-valued", nil)
	}
	if submitter == nil {
		return nil, newError(InvalidArgument, "submitter must not be nil", nil)
	}
	if factory == nil {
		return nil, newError(InvalidArgument, "proxy factory must not be nil", nil)
	}
	if queueName == "" {
		queueName = config.DefaultQueueName
	}

	c := &Controller{
		config:        config,
		applicationID: applicationID,
		queueName:     queueName,
		submitter:     *submitter,
		appNameSuffix: appNameSuffix,
		factory:       factory,
		tracer:        opentracing.NoopTracer{},
		metrics:       noopMetrics{},
		lifecycle:     lifecycle.NewLifecycle(),
		queue:         newRequestQueue(applicationID.String()),
		warnLogger:    log.RateLimitedLog(5 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateAndRegister submits the placeholder application, waits for its
// first attempt to launch, registers as that attempt's master, and -- on
// success only -- starts the heartbeat worker. It blocks for up to the
// attempt-launch timeout plus one synchronous register RPC.
func (c *Controller) CreateAndRegister(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	if req == nil {
		return nil, newError(InvalidArgument, "register request must not be nil", nil)
	}

	// Stashing the request first signals to concurrent AllocateAsync
	// callers that registration is in flight, before any RPC proxy
	// exists.
	c.lock.Lock()
	c.registerRequest = req
	c.lock.Unlock()
	c.lifecycle.Fire(lifecycle.EventSubmit)

	span, spanCtx := trace.StartRPCSpan(ctx, c.tracer, "create_and_register", c.applicationID.String())
	defer func() { trace.FinishRPCSpan(span, nil) }()

	clientProxy, err := c.factory.NewClientProtocol(c.config, c.submitter)
	if err != nil {
		c.lifecycle.Fire(lifecycle.EventRegisterFailed)
		return nil, newError(CredentialFailure, "failed to create client protocol proxy", err)
	}
	c.lock.Lock()
	c.clientProxy = clientProxy
	c.lock.Unlock()

	submission := NewSubmissionContext(c.applicationID, c.amName(), c.queueName)
	if err := clientProxy.SubmitApplication(spanCtx, submission); err != nil {
		c.lifecycle.Fire(lifecycle.EventRegisterFailed)
		return nil, newError(RPCFailure, "submit_application failed", err)
	}

	monitor := newAttemptMonitor(clientProxy, c.pollInterval(), c.attemptLaunchTimeout())
	attemptID, token, err := monitor.monitor(spanCtx, c.applicationID, AttemptStateLaunched)
	if err != nil {
		c.lifecycle.Fire(lifecycle.EventRegisterFailed)
		return nil, err
	}

	c.lock.Lock()
	c.attemptID = &attemptID
	c.lock.Unlock()

	proxyUser := NewProxyPrincipal(c.submitter, attemptID, token)
	masterProxy, err := c.factory.NewMasterProtocol(c.config, proxyUser, token)
	if err != nil {
		c.lifecycle.Fire(lifecycle.EventRegisterFailed)
		return nil, newError(CredentialFailure, "failed to create master protocol proxy", err)
	}

	resp, err := masterProxy.RegisterApplicationMaster(spanCtx, req)
	if err != nil {
		c.lifecycle.Fire(lifecycle.EventRegisterFailed)
		return nil, newError(RPCFailure, "register_application_master failed", err)
	}

	// Only on success: master_rpc_proxy transitions null -> non-null
	// exactly once, here, and never resets.
	c.lock.Lock()
	c.proxyUser = proxyUser
	c.masterProxy = masterProxy
	c.lock.Unlock()

	helper := newReRegisterHelper(masterProxy, func(ctx context.Context) error {
		_, regErr := masterProxy.RegisterApplicationMaster(ctx, req)
		return regErr
	}, c.metrics)

	worker := newHeartbeatWorker(c.queue, masterProxy, helper, proxyUser, attemptID, c.tracer, c.metrics, c.warnLogger)
	c.lock.Lock()
	c.worker = worker
	c.lock.Unlock()
	worker.start()

	c.lifecycle.Fire(lifecycle.EventRegisterOK)
	log.Logger().Info("registered as application master",
		zap.String("applicationId", c.applicationID.String()),
		zap.String("attemptId", attemptID.String()))
	return resp, nil
}

// AllocateAsync enqueues req and its callback. It never blocks
// meaningfully and never drops a request, even when the proxy is not yet
// ready: once registration completes the worker drains whatever queued up
// in the meantime.
func (c *Controller) AllocateAsync(req *AllocateRequest, callback AllocateCallback) error {
	if req == nil || callback == nil {
		return newError(InvalidArgument, "allocate request and callback must both be non-nil", nil)
	}

	// Enqueue unconditionally, even if the proxy is not ready and even if
	// this call is about to fail: a request issued too early is still
	// queued, just not yet drainable, mirroring the source's
	// "queue first, validate after" ordering.
	c.queue.enqueue(queuedItem{request: req, callback: callback})
	if c.metrics != nil {
		c.metrics.SetPendingRequests(c.queue.pendingCount())
	}

	c.lock.RLock()
	hasProxy := c.masterProxy != nil
	hasRegisterRequest := c.registerRequest != nil
	c.lock.RUnlock()

	if hasProxy || hasRegisterRequest {
		return nil
	}
	return newError(NotRegistered, "allocate_async must not be called before create_and_register", nil)
}

// Finish stops the worker and, if registration completed, unregisters via
// the re-register helper. If registration never completed but was
// in-flight, it returns a synthetic "unregistered = false" response
// instead of failing, matching the source's tolerance for a racing
// create_and_register caller on another goroutine.
func (c *Controller) Finish(ctx context.Context, req *FinishRequest) (*FinishResponse, error) {
	c.stopWorker()

	c.lock.RLock()
	masterProxy := c.masterProxy
	registerRequest := c.registerRequest
	c.lock.RUnlock()

	if masterProxy == nil {
		if registerRequest != nil {
			log.Logger().Warn("finish called while registration is still in flight",
				zap.String("applicationId", c.applicationID.String()))
			c.lifecycle.Fire(lifecycle.EventFinish)
			return &FinishResponse{Unregistered: false}, nil
		}
		return nil, newError(NotRegistered, "finish called before create_and_register", nil)
	}

	span, spanCtx := trace.StartRPCSpan(ctx, c.tracer, "finish_application_master", c.attemptIDString())
	defer func() { trace.FinishRPCSpan(span, nil) }()

	helper := newReRegisterHelper(masterProxy, func(ctx context.Context) error {
		_, regErr := masterProxy.RegisterApplicationMaster(ctx, registerRequest)
		return regErr
	}, c.metrics)

	var resp *FinishResponse
	err := helper.call(spanCtx, func() error {
		r, finErr := masterProxy.FinishApplicationMaster(spanCtx, req)
		if finErr != nil {
			return finErr
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.lifecycle.Fire(lifecycle.EventFinish)
	return resp, nil
}

// ForceKill stops the worker and force-kills the application via the
// client protocol, lazily creating a client proxy under the submitter
// principal if CreateAndRegister never ran.
func (c *Controller) ForceKill(ctx context.Context) (*KillResponse, error) {
	c.stopWorker()

	c.lock.Lock()
	clientProxy := c.clientProxy
	if clientProxy == nil {
		var err error
		clientProxy, err = c.factory.NewClientProtocol(c.config, c.submitter)
		if err != nil {
			c.lock.Unlock()
			return nil, newError(CredentialFailure, "failed to create client protocol proxy for force_kill", err)
		}
		c.clientProxy = clientProxy
	}
	c.lock.Unlock()

	span, spanCtx := trace.StartRPCSpan(ctx, c.tracer, "force_kill_application", c.applicationID.String())
	defer func() { trace.FinishRPCSpan(span, nil) }()

	resp, err := clientProxy.ForceKillApplication(spanCtx, c.applicationID)
	if err != nil {
		return nil, newError(RPCFailure, "force_kill_application failed", err)
	}
	c.lifecycle.Fire(lifecycle.EventFinish)
	return resp, nil
}

func (c *Controller) stopWorker() {
	c.lock.RLock()
	worker := c.worker
	c.lock.RUnlock()
	if worker != nil {
		worker.stop()
	}
}

// AttemptID returns the cached attempt id, or nil before registration
// reaches LAUNCHED.
func (c *Controller) AttemptID() *AttemptId {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.attemptID
}

// PendingRequestCount exposes the queue depth, primarily for tests and
// diagnostics.
func (c *Controller) PendingRequestCount() int {
	return c.queue.pendingCount()
}

// LifecycleState reports the controller's own state machine position.
func (c *Controller) LifecycleState() lifecycle.State {
	return c.lifecycle.Current()
}

// LastResponseID reports the most recent allocate response id observed by
// the worker, or 0 if the worker never started.
func (c *Controller) LastResponseID() int32 {
	c.lock.RLock()
	worker := c.worker
	c.lock.RUnlock()
	if worker == nil {
		return 0
	}
	return worker.currentResponseID()
}

func (c *Controller) amName() string {
	suffix := c.appNameSuffix
	if suffix == "" {
		// No caller-supplied suffix: generate one so that repeated
		// create_and_register calls across restarts remain distinguishable
		// in CRM-side application listings.
		suffix = common.GetNewUUID()
		c.appNameSuffix = suffix
	}
	return fmt.Sprintf("UnmanagedAM-%s", suffix)
}

func (c *Controller) pollInterval() time.Duration {
	if c.config.PollInterval <= 0 {
		return time.Second
	}
	return c.config.PollInterval
}

func (c *Controller) attemptLaunchTimeout() time.Duration {
	if c.config.AttemptLaunchTimeout <= 0 {
		return DefaultAttemptLaunchTimeout
	}
	return c.config.AttemptLaunchTimeout
}

func (c *Controller) attemptIDString() string {
	if id := c.AttemptID(); id != nil {
		return id.String()
	}
	return ""
}
