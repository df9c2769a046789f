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
	"errors"
	"testing"

	"github.com/opentracing/opentracing-go/mocktracer"
	"gotest.tools/v3/assert"
)

func TestStartAndFinishRPCSpan(t *testing.T) {
	tracer := mocktracer.New()

	span, ctx := StartRPCSpan(context.Background(), tracer, "register_application_master", "app-0001_000001")
	FinishRPCSpan(span, nil)

	finished := tracer.FinishedSpans()
	assert.Equal(t, 1, len(finished))
	assert.Equal(t, "register_application_master", finished[0].OperationName)
	assert.Equal(t, "app-0001_000001", finished[0].Tag("attempt.id"))
	assert.Assert(t, finished[0].Tag("error") == nil)
	assert.Assert(t, ctx != nil)
}

func TestStartRPCSpanNestsUnderParent(t *testing.T) {
	tracer := mocktracer.New()

	parent, parentCtx := StartRPCSpan(context.Background(), tracer, "create_and_register", "app-0001_000001")
	child, _ := StartRPCSpan(parentCtx, tracer, "submit_application", "app-0001_000001")
	FinishRPCSpan(child, errors.New("rpc failed"))
	FinishRPCSpan(parent, nil)

	finished := tracer.FinishedSpans()
	assert.Equal(t, 2, len(finished))
	// child finishes first
	childSpan := finished[0]
	assert.Equal(t, true, childSpan.Tag("error"))
	assert.Equal(t, childSpan.ParentID, finished[1].SpanContext.SpanID)
}
