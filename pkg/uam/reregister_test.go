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
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gotest.tools/v3/assert"
)

func TestReRegisterHelperRetriesOnceOnSessionLost(t *testing.T) {
	registerCalls := 0
	register := func(ctx context.Context) error { registerCalls++; return nil }
	master := &mockMasterProtocol{}
	h := newReRegisterHelper(master, register, noopMetrics{})

	attempts := 0
	err := h.call(context.Background(), func() error {
		attempts++
		if attempts == 1 {
			return status.Error(codes.FailedPrecondition, "attempt not registered")
		}
		return nil
	})
	assert.NilError(t, err)
	assert.Equal(t, 1, registerCalls)
	assert.Equal(t, 2, attempts)
}

func TestReRegisterHelperDoesNotRetryOnOtherFailures(t *testing.T) {
	registerCalls := 0
	register := func(ctx context.Context) error { registerCalls++; return nil }
	h := newReRegisterHelper(&mockMasterProtocol{}, register, noopMetrics{})

	sentinel := errors.New("transport reset")
	attempts := 0
	err := h.call(context.Background(), func() error {
		attempts++
		return sentinel
	})
	assert.Assert(t, errors.Is(err, sentinel))
	assert.Equal(t, 0, registerCalls)
	assert.Equal(t, 1, attempts)
}

func TestReRegisterHelperEscalatesWhenRetryAlsoFails(t *testing.T) {
	register := func(ctx context.Context) error { return nil }
	h := newReRegisterHelper(&mockMasterProtocol{}, register, noopMetrics{})

	attempts := 0
	err := h.call(context.Background(), func() error {
		attempts++
		return status.Error(codes.Aborted, "attempt not registered")
	})
	assert.ErrorType(t, err, func(err error) bool { return IsKind(err, RPCFailure) })
	assert.Equal(t, 2, attempts)
}

func TestReRegisterHelperEscalatesWhenReRegisterItselfFails(t *testing.T) {
	registerErr := errors.New("register rpc failed")
	register := func(ctx context.Context) error { return registerErr }
	h := newReRegisterHelper(&mockMasterProtocol{}, register, noopMetrics{})

	err := h.call(context.Background(), func() error {
		return status.Error(codes.FailedPrecondition, "attempt not registered")
	})
	assert.ErrorType(t, err, func(err error) bool { return IsKind(err, RPCFailure) })
	assert.ErrorContains(t, err, "re-register")
}

func TestIsSessionLostRecognisesUAMErrorKind(t *testing.T) {
	assert.Assert(t, isSessionLost(newError(SessionLost, "fenced", nil)))
	assert.Assert(t, !isSessionLost(newError(RPCFailure, "other", nil)))
	assert.Assert(t, !isSessionLost(nil))
	assert.Assert(t, !isSessionLost(errors.New("plain")))
}
