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

import "context"

// ClientProtocol is RPC surface A: the submitter-principal-authenticated
// calls used to submit the placeholder application, poll its state, and
// force-kill it. Transport (dialing, codecs, retries below the RPC layer)
// is an external collaborator; this package only depends on the surface.
type ClientProtocol interface {
	SubmitApplication(ctx context.Context, submission SubmissionContext) error
	GetApplicationReport(ctx context.Context, appID ApplicationId) (*ApplicationReport, error)
	GetApplicationAttemptReport(ctx context.Context, attemptID AttemptId) (*ApplicationAttemptReport, error)
	ForceKillApplication(ctx context.Context, appID ApplicationId) (*KillResponse, error)
}

// MasterProtocol is RPC surface B: the attempt-proxy-principal and
// AMRM-token-authenticated calls used for the register/allocate/finish
// heartbeat loop.
type MasterProtocol interface {
	RegisterApplicationMaster(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	Allocate(ctx context.Context, req *AllocateRequest) (*AllocateResponse, error)
	FinishApplicationMaster(ctx context.Context, req *FinishRequest) (*FinishResponse, error)
}

// ProxyFactory is the controller's protected extension seam: tests inject
// mock RPC endpoints, production callers wire a real transport, by
// supplying factories that build a protocol proxy for a given principal
// (and, for the master protocol, an AMRM token).
type ProxyFactory interface {
	NewClientProtocol(config *Config, principal Principal) (ClientProtocol, error)
	NewMasterProtocol(config *Config, principal *ProxyPrincipal, token *AMRMToken) (MasterProtocol, error)
}
