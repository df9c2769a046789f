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

import "github.com/apache/hadoop-yarn-uam-client/pkg/locking"

// Principal is the caller's authenticated identity, supplied explicitly by
// the process embedding this client. No part of this package looks up an
// ambient "current user"; callers that need one must resolve it themselves
// before constructing a Controller.
type Principal struct {
	Name string
}

// ProxyPrincipal is a principal tagged with the attempt it acts on behalf
// of, layered on the caller's own identity -- mirroring
// UserGroupInformation.createProxyUser(attemptId, currentUser) in the
// source this client reimplements, but built from an explicit caller
// principal rather than an ambient lookup.
//
// Token refresh is an explicit UpdateToken call rather than in-place
// mutation of a shared credential cache, so the heartbeat worker can apply
// a refreshed AMRM token without any other reader observing a half-updated
// credential.
type ProxyPrincipal struct {
	Caller    Principal
	AttemptID AttemptId

	lock  locking.RWMutex
	token *AMRMToken
}

func NewProxyPrincipal(caller Principal, attemptID AttemptId, token *AMRMToken) *ProxyPrincipal {
	return &ProxyPrincipal{
		Caller:    caller,
		AttemptID: attemptID,
		token:     token,
	}
}

// Token returns the principal's current AMRM token.
func (p *ProxyPrincipal) Token() *AMRMToken {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.token
}

// UpdateToken atomically replaces the principal's AMRM token. Called only
// by the heartbeat worker, after an allocate response carries a refreshed
// token and before the response reaches the caller's callback.
func (p *ProxyPrincipal) UpdateToken(token *AMRMToken) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.token = token
}
