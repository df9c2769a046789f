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

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mockClientProtocol is a scripted fake of RPC surface A. appStates and
// attemptStates are consumed one value per call, with the last value
// sticking once exhausted, so a test can script a handful of poll
// transitions without predicting exactly how many polls will occur.
type mockClientProtocol struct {
	mu sync.Mutex

	appStates     []ApplicationState
	appStateCalls int
	attemptStates []AttemptState
	attemptCalls  int

	attemptID AttemptId
	token     *AMRMToken

	// reportCalls counts GetApplicationReport invocations. tokenAfterReportCall,
	// when non-zero, is the 1-indexed call number from which `token` starts
	// being returned; earlier calls (modelling a CRM that has not attached a
	// token yet at ACCEPTED time) return a nil token.
	reportCalls          int
	tokenAfterReportCall int

	submitCount    int
	submitErr      error
	forceKillCount int
	forceKillResp  *KillResponse
}

func (m *mockClientProtocol) SubmitApplication(_ context.Context, _ SubmissionContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitCount++
	return m.submitErr
}

func (m *mockClientProtocol) GetApplicationReport(_ context.Context, appID ApplicationId) (*ApplicationReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reportCalls++
	state := m.nextAppState()
	attemptID := m.attemptID
	if attemptID == (AttemptId{}) {
		attemptID = AttemptId{ApplicationId: appID, AttemptNumber: 1}
	}
	token := m.token
	if m.tokenAfterReportCall != 0 && m.reportCalls < m.tokenAfterReportCall {
		token = nil
	}
	return &ApplicationReport{State: state, CurrentAttemptID: attemptID, AMRMToken: token}, nil
}

func (m *mockClientProtocol) nextAppState() ApplicationState {
	idx := m.appStateCalls
	if idx >= len(m.appStates) {
		idx = len(m.appStates) - 1
	}
	m.appStateCalls++
	if idx < 0 {
		return ApplicationStateAccepted
	}
	return m.appStates[idx]
}

func (m *mockClientProtocol) GetApplicationAttemptReport(_ context.Context, _ AttemptId) (*ApplicationAttemptReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.attemptCalls
	if idx >= len(m.attemptStates) {
		idx = len(m.attemptStates) - 1
	}
	m.attemptCalls++
	if idx < 0 {
		return &ApplicationAttemptReport{}, nil
	}
	return &ApplicationAttemptReport{State: m.attemptStates[idx]}, nil
}

func (m *mockClientProtocol) ForceKillApplication(_ context.Context, _ ApplicationId) (*KillResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forceKillCount++
	if m.forceKillResp != nil {
		return m.forceKillResp, nil
	}
	return &KillResponse{KillCompleted: true}, nil
}

// mockMasterProtocol is a scripted fake of RPC surface B. failAllocateOnCallNumber
// makes the N-th allocate fail with session-lost while the (N+1)-th
// succeeds, letting tests exercise the re-register helper.
type mockMasterProtocol struct {
	mu sync.Mutex

	registerCount int
	registerErr   error

	allocateCount            int
	failAllocateOnCallNumber int // 1-indexed; 0 disables; fails with session-lost
	failAllocateWithGeneric  int // 1-indexed; 0 disables; fails with a non-session-lost error
	allocateResponseID       int32
	refreshedToken           *AMRMToken // when non-nil, returned on every successful allocate

	finishCount int
	finishResp  *FinishResponse
	finishErr   error
}

func (m *mockMasterProtocol) RegisterApplicationMaster(_ context.Context, _ *RegisterRequest) (*RegisterResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerCount++
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return &RegisterResponse{}, nil
}

func (m *mockMasterProtocol) Allocate(_ context.Context, req *AllocateRequest) (*AllocateResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allocateCount++
	if m.failAllocateOnCallNumber != 0 && m.allocateCount == m.failAllocateOnCallNumber {
		return nil, status.Error(codes.FailedPrecondition, "attempt not registered")
	}
	if m.failAllocateWithGeneric != 0 && m.allocateCount == m.failAllocateWithGeneric {
		return nil, status.Error(codes.Internal, "transport error")
	}
	m.allocateResponseID = req.ResponseID + 1
	return &AllocateResponse{ResponseID: m.allocateResponseID, RefreshedAMRMToken: m.refreshedToken}, nil
}

func (m *mockMasterProtocol) FinishApplicationMaster(_ context.Context, _ *FinishRequest) (*FinishResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finishCount++
	if m.finishErr != nil {
		return nil, m.finishErr
	}
	if m.finishResp != nil {
		return m.finishResp, nil
	}
	return &FinishResponse{Unregistered: true}, nil
}

// mockProxyFactory hands back pre-built mocks instead of constructing
// real proxies, or the configured error for either protocol.
type mockProxyFactory struct {
	client *mockClientProtocol
	master *mockMasterProtocol

	clientErr error
	masterErr error
}

func (f *mockProxyFactory) NewClientProtocol(_ *Config, _ Principal) (ClientProtocol, error) {
	if f.clientErr != nil {
		return nil, f.clientErr
	}
	return f.client, nil
}

func (f *mockProxyFactory) NewMasterProtocol(_ *Config, _ *ProxyPrincipal, _ *AMRMToken) (MasterProtocol, error) {
	if f.masterErr != nil {
		return nil, f.masterErr
	}
	return f.master, nil
}
