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
	"github.com/apache/hadoop-yarn-uam-client/pkg/uam"
)

// stateAdapter bridges uam.Controller's typed accessors to
// diagnostics.StateProvider's plain-string surface, so the controller's
// own AttemptID method can keep returning *uam.AttemptId (the natural
// programmatic type) without colliding with the diagnostics contract.
type stateAdapter struct {
	controller *uam.Controller
}

func newStateAdapter(controller *uam.Controller) *stateAdapter {
	return &stateAdapter{controller: controller}
}

func (a *stateAdapter) AttemptID() string {
	if id := a.controller.AttemptID(); id != nil {
		return id.String()
	}
	return ""
}

func (a *stateAdapter) State() string {
	return string(a.controller.LifecycleState())
}

func (a *stateAdapter) PendingRequestCount() int {
	return a.controller.PendingRequestCount()
}

func (a *stateAdapter) LastResponseID() int32 {
	return a.controller.LastResponseID()
}
