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

package trace

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// StartRPCSpan starts a span for a single outbound CRM RPC call, tagging it
// with the attempt it belongs to. Unlike the scheduler's nested trace
// contexts, a UAM client only ever has one RPC in flight per call site, so a
// single child-of-context-span call is enough; no span stack is needed.
func StartRPCSpan(ctx context.Context, tracer opentracing.Tracer, operation string, attemptID string) (opentracing.Span, context.Context) {
	var span opentracing.Span
	if parent := opentracing.SpanFromContext(ctx); parent != nil {
		span = tracer.StartSpan(operation, opentracing.ChildOf(parent.Context()))
	} else {
		span = tracer.StartSpan(operation)
	}
	span.SetTag("attempt.id", attemptID)
	ext.SpanKindRPCClient.Set(span)
	return span, opentracing.ContextWithSpan(ctx, span)
}

// FinishRPCSpan finishes span, marking it as an error span when err is non-nil.
func FinishRPCSpan(span opentracing.Span, err error) {
	if err != nil {
		ext.Error.Set(span, true)
		span.LogKV("error", err.Error())
	}
	span.Finish()
}
