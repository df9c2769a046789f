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

// Package lifecycle wraps looplab/fsm into the small state machine the UAM
// controller runs through: New -> Submitting -> Registered -> Finished, with
// a Failed state reachable from Submitting, from which finish still leads to
// Finished. Transitions are driven synchronously from the calling goroutine
// instead of over an event channel: the controller fires them directly from
// create_and_register/finish/force_kill, and the underlying fsm guards its
// own state, so there is no independent event stream to dispatch here.
package lifecycle

import (
	"context"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/apache/hadoop-yarn-uam-client/pkg/log"
)

type State string

const (
	New        State = "NEW"
	Submitting State = "SUBMITTING"
	Registered State = "REGISTERED"
	Finished   State = "FINISHED"
	Failed     State = "FAILED"
)

const (
	EventSubmit         = "submit"
	EventRegisterOK     = "register_ok"
	EventRegisterFailed = "register_failed"
	EventFinish         = "finish"
)

// Lifecycle tracks the controller's own state. It never blocks registration
// or the heartbeat loop: Fire only records a transition and logs it, the
// controller's own locking decides what is safe to do at each state.
type Lifecycle struct {
	machine *fsm.FSM
}

func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		machine: fsm.NewFSM(string(New),
			fsm.Events{
				{Name: EventSubmit, Src: []string{string(New)}, Dst: string(Submitting)},
				{Name: EventRegisterOK, Src: []string{string(Submitting)}, Dst: string(Registered)},
				{Name: EventRegisterFailed, Src: []string{string(Submitting)}, Dst: string(Failed)},
				{Name: EventFinish, Src: []string{string(Submitting), string(Registered), string(Failed)}, Dst: string(Finished)},
			},
			fsm.Callbacks{},
		),
	}
}

// Fire attempts the named transition. A transition that the current state
// does not allow is logged and ignored: the controller's own nullness checks
// (registerRequest, masterProxy) remain the source of truth for correctness,
// this is observability on top of them, not a gate.
func (l *Lifecycle) Fire(event string) {
	pre := l.machine.Current()
	if err := l.machine.Event(context.Background(), event); err != nil {
		log.Logger().Debug("uam lifecycle transition rejected",
			zap.String("state", pre),
			zap.String("event", event),
			zap.Error(err))
		return
	}
	log.Logger().Debug("uam lifecycle transition",
		zap.String("from", pre),
		zap.String("event", event),
		zap.String("to", l.machine.Current()))
}

func (l *Lifecycle) Current() State {
	return State(l.machine.Current())
}
