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

// uamclient is a small demo harness: it wires a Controller against an
// in-process fake CRM (this package's stubProxyFactory, not a real RPC
// transport -- transport is an external collaborator per this client's
// design) and exposes the diagnostics HTTP surface so an operator can
// watch the lifecycle play out.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/apache/hadoop-yarn-uam-client/pkg/diagnostics"
	"github.com/apache/hadoop-yarn-uam-client/pkg/log"
	"github.com/apache/hadoop-yarn-uam-client/pkg/metrics"
	"github.com/apache/hadoop-yarn-uam-client/pkg/trace"
	"github.com/apache/hadoop-yarn-uam-client/pkg/uam"
	"github.com/apache/hadoop-yarn-uam-client/pkg/uamconfig"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (poll_interval_ms, default_queue_name, attempt_launch_timeout_ms)")
	submitterName := flag.String("submitter", "uamclient", "submitter principal name")
	queueName := flag.String("queue", "", "queue name; falls back to the config's default_queue_name")
	diagAddr := flag.String("diag-addr", ":9080", "address for the read-only diagnostics HTTP server")
	traceAll := flag.Bool("trace-all", false, "sample and log every RPC span with a local Jaeger tracer instead of JAEGER_* env config")
	flag.Parse()

	cfg := &uam.Config{PollInterval: 200 * time.Millisecond, AttemptLaunchTimeout: uam.DefaultAttemptLaunchTimeout}
	if *configPath != "" {
		loaded, err := uamconfig.Load(*configPath)
		if err != nil {
			log.Logger().Error("failed to load config", zap.Error(err))
			os.Exit(1)
		}
		cfg = loaded
	}

	appID := uam.ApplicationId{ClusterTimestamp: time.Now().Unix(), ID: 1}
	submitter := &uam.Principal{Name: *submitterName}
	appMetrics := metrics.NewUAMMetrics(appID.String())
	if err := appMetrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Logger().Warn("metrics registration failed, /metrics will only show Go runtime defaults", zap.Error(err))
	}

	opts := []uam.Option{uam.WithMetrics(appMetrics)}
	if tracer, closer, err := newTracer(appID.String(), *traceAll); err != nil {
		log.Logger().Warn("tracing disabled, falling back to a no-op tracer", zap.Error(err))
	} else if tracer != nil {
		defer closer.Close()
		opts = append(opts, uam.WithTracer(tracer))
	}

	controller, err := uam.NewController(cfg, appID, *queueName, submitter, "uamclient", newStubProxyFactory(), opts...)
	if err != nil {
		log.Logger().Error("failed to construct controller", zap.Error(err))
		os.Exit(1)
	}

	diagServer := diagnostics.NewServer(*diagAddr, newStateAdapter(controller))
	diagServer.Start()
	defer func() {
		if err := diagServer.Stop(); err != nil {
			log.Logger().Warn("diagnostics server shutdown error", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := controller.CreateAndRegister(ctx, &uam.RegisterRequest{Host: "localhost", RPCPort: 0}); err != nil {
		log.Logger().Error("create_and_register failed", zap.Error(err))
		os.Exit(1)
	}
	log.Logger().Info("registered, serving diagnostics", zap.String("addr", *diagAddr))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	finishCtx, finishCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer finishCancel()
	if _, err := controller.Finish(finishCtx, &uam.FinishRequest{FinalState: "SUCCEEDED"}); err != nil {
		log.Logger().Warn("finish failed", zap.Error(err))
	}
}

// newTracer picks between the always-sample demo tracer and the JAEGER_*
// env-configured one. A nil tracer with a nil error means JAEGER_* was not
// set, in which case the controller keeps its default no-op tracer.
func newTracer(serviceName string, traceAll bool) (opentracing.Tracer, io.Closer, error) {
	if traceAll {
		return trace.NewConstTracer(serviceName)
	}
	if os.Getenv("JAEGER_SERVICE_NAME") == "" && os.Getenv("JAEGER_SAMPLER_TYPE") == "" {
		return nil, nil, nil
	}
	return trace.NewTracerFromEnv(serviceName)
}
