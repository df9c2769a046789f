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

package main

import (
	"context"
	"sync"

	"github.com/apache/hadoop-yarn-uam-client/pkg/uam"
)

// stubProxyFactory fakes just enough of a CRM to exercise the controller's
// full lifecycle without a real transport: the application is ACCEPTED on
// the first report, its attempt reaches LAUNCHED on the second attempt
// report, and an allocate loop that always succeeds. It exists only
// so this demo binary has something to run against; real callers supply a
// uam.ProxyFactory backed by an actual RPC client.
type stubProxyFactory struct{}

func newStubProxyFactory() *stubProxyFactory {
	return &stubProxyFactory{}
}

func (f *stubProxyFactory) NewClientProtocol(_ *uam.Config, _ uam.Principal) (uam.ClientProtocol, error) {
	return &stubClientProtocol{}, nil
}

func (f *stubProxyFactory) NewMasterProtocol(_ *uam.Config, _ *uam.ProxyPrincipal, _ *uam.AMRMToken) (uam.MasterProtocol, error) {
	return &stubMasterProtocol{}, nil
}

type stubClientProtocol struct {
	mu     sync.Mutex
	polled int
}

func (c *stubClientProtocol) SubmitApplication(_ context.Context, _ uam.SubmissionContext) error {
	return nil
}

func (c *stubClientProtocol) GetApplicationReport(_ context.Context, appID uam.ApplicationId) (*uam.ApplicationReport, error) {
	return &uam.ApplicationReport{
		State:            uam.ApplicationStateAccepted,
		CurrentAttemptID: uam.AttemptId{ApplicationId: appID, AttemptNumber: 1},
	}, nil
}

func (c *stubClientProtocol) GetApplicationAttemptReport(_ context.Context, _ uam.AttemptId) (*uam.ApplicationAttemptReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.polled++
	if c.polled < 2 {
		return &uam.ApplicationAttemptReport{State: ""}, nil
	}
	return &uam.ApplicationAttemptReport{State: uam.AttemptStateLaunched}, nil
}

func (c *stubClientProtocol) ForceKillApplication(_ context.Context, _ uam.ApplicationId) (*uam.KillResponse, error) {
	return &uam.KillResponse{KillCompleted: true}, nil
}

type stubMasterProtocol struct {
	mu         sync.Mutex
	responseID int32
}

func (m *stubMasterProtocol) RegisterApplicationMaster(_ context.Context, _ *uam.RegisterRequest) (*uam.RegisterResponse, error) {
	return &uam.RegisterResponse{}, nil
}

func (m *stubMasterProtocol) Allocate(_ context.Context, req *uam.AllocateRequest) (*uam.AllocateResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responseID = req.ResponseID + 1
	return &uam.AllocateResponse{ResponseID: m.responseID}, nil
}

func (m *stubMasterProtocol) FinishApplicationMaster(_ context.Context, _ *uam.FinishRequest) (*uam.FinishResponse, error) {
	return &uam.FinishResponse{Unregistered: true}, nil
}
