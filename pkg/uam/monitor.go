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
	"time"

	"go.uber.org/zap"

	"github.com/apache/hadoop-yarn-uam-client/pkg/common"
	"github.com/apache/hadoop-yarn-uam-client/pkg/log"
)

// DefaultAttemptLaunchTimeout is the source's hard-coded 10s literal,
// preserved as the default rather than as the only option.
const DefaultAttemptLaunchTimeout = 10 * time.Second

// attemptMonitor polls the client protocol until the application's first
// attempt reaches the target attempt state. The CRM surfaces application
// state before attempt state exists to query, hence the two-level check:
// wait for the application to become ACCEPTED, then poll the attempt.
type attemptMonitor struct {
	client       ClientProtocol
	pollInterval time.Duration
	timeout      time.Duration
	timer        common.Timer
}

func newAttemptMonitor(client ClientProtocol, pollInterval, timeout time.Duration) *attemptMonitor {
	if timeout <= 0 {
		timeout = DefaultAttemptLaunchTimeout
	}
	return &attemptMonitor{
		client:       client,
		pollInterval: pollInterval,
		timeout:      timeout,
		timer:        common.NewTimer(),
	}
}

// monitor polls application and attempt state until the attempt is in
// targetState, returning the attempt id and the AMRM token fetched once
// the attempt reaches that state. The CRM may not have a token attached
// yet at mere ACCEPTED time, so the token is deliberately *not* taken from
// the ACCEPTED-time application report: a fresh GetApplicationReport call
// is issued only after targetState is confirmed. The only acceptable
// onward application state before an attempt id is known is ACCEPTED: any
// of RUNNING/FAILED/FINISHED/KILLED means a later attempt is already in
// play, which violates the UAM's first-attempt contract.
func (m *attemptMonitor) monitor(ctx context.Context, appID ApplicationId, targetState AttemptState) (AttemptId, *AMRMToken, error) {
	startNanos := m.timer.NanoTimeNow()
	var attemptID AttemptId
	haveAttemptID := false

	for {
		if m.timer.NanoTimeNow()-startNanos > m.timeout.Nanoseconds() {
			return AttemptId{}, nil, newError(AttemptLaunchTimeout, "attempt did not reach target state within timeout", nil)
		}

		if !haveAttemptID {
			report, err := m.client.GetApplicationReport(ctx, appID)
			if err != nil {
				return AttemptId{}, nil, newError(RPCFailure, "get_application_report failed", err)
			}
			if report.State == ApplicationStateAccepted {
				attemptID = report.CurrentAttemptID
				haveAttemptID = true
				log.Logger().Debug("application accepted, attempt id known",
					zap.String("applicationId", appID.String()),
					zap.String("attemptId", attemptID.String()))
			} else if report.State == ApplicationStateRunning ||
				report.State == ApplicationStateFailed ||
				report.State == ApplicationStateFinished ||
				report.State == ApplicationStateKilled {
				return AttemptId{}, nil, newError(NotFirstAttempt, "application's first visible state is not ACCEPTED", nil)
			} else {
				log.Logger().Debug("waiting for application to be accepted",
					zap.String("applicationId", appID.String()),
					zap.String("state", string(report.State)))
			}
		} else {
			attemptReport, err := m.client.GetApplicationAttemptReport(ctx, attemptID)
			if err != nil {
				return AttemptId{}, nil, newError(RPCFailure, "get_application_attempt_report failed", err)
			}
			if attemptReport.State == targetState {
				report, err := m.client.GetApplicationReport(ctx, appID)
				if err != nil {
					return AttemptId{}, nil, newError(RPCFailure, "get_application_report failed", err)
				}
				return attemptID, report.AMRMToken, nil
			}
			log.Logger().Debug("waiting for attempt to reach target state",
				zap.String("attemptId", attemptID.String()),
				zap.String("state", string(attemptReport.State)),
				zap.String("target", string(targetState)))
		}

		// A cancelled context is informational: it is logged and polling
		// continues. The sleep itself is not interrupted, and the overall
		// timeout still applies from the original start time.
		select {
		case <-ctx.Done():
			log.Logger().Debug("attempt monitor poll interrupted", zap.Error(ctx.Err()))
		default:
		}
		m.timer.Sleep(m.pollInterval)
	}
}
