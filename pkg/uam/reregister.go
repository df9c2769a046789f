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

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/apache/hadoop-yarn-uam-client/pkg/log"
)

// reRegisterHelper is the shared retry policy used by both allocate and
// finish_application_master: call the underlying RPC, and if the CRM
// reports the attempt is no longer registered, silently re-register and
// retry the call exactly once. Any other failure surfaces to the caller
// untouched; a failed re-register, or a second failure after the retry,
// surfaces as an RPCFailure wrapping the underlying error.
type reRegisterHelper struct {
	master   MasterProtocol
	register func(ctx context.Context) error
	metrics  Metrics
}

func newReRegisterHelper(master MasterProtocol, register func(ctx context.Context) error, metrics Metrics) *reRegisterHelper {
	return &reRegisterHelper{master: master, register: register, metrics: metrics}
}

// isSessionLost reports whether err indicates the CRM no longer knows
// about this attempt -- fenced by a failover, restarted, or the token
// expired -- as opposed to a generic transport or server failure.
func isSessionLost(err error) bool {
	if err == nil {
		return false
	}
	var uerr *Error
	if errors.As(err, &uerr) && uerr.Kind == SessionLost {
		return true
	}
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	switch st.Code() {
	case codes.FailedPrecondition, codes.Aborted:
		return true
	default:
		return false
	}
}

// call runs op, transparently re-registering and retrying once if op fails
// with session-lost. The helper never swallows a failure that is not
// session-loss.
func (h *reRegisterHelper) call(ctx context.Context, op func() error) error {
	err := op()
	if err == nil {
		return nil
	}
	if !isSessionLost(err) {
		return err
	}

	log.Logger().Warn("CRM reported session lost, re-registering before retrying", zap.Error(err))
	if h.metrics != nil {
		h.metrics.IncReRegister()
	}
	if regErr := h.register(ctx); regErr != nil {
		return newError(RPCFailure, "re-register after session-lost failed", regErr)
	}

	if retryErr := op(); retryErr != nil {
		return newError(RPCFailure, "retry after re-register failed", retryErr)
	}
	return nil
}
