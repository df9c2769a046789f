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

import "time"

// Config carries the handful of knobs this client needs; security and
// transport knobs are forwarded through the ProxyFactory without
// interpretation here.
type Config struct {
	// PollInterval is the client-protocol polling cadence used by the
	// attempt monitor.
	PollInterval time.Duration
	// DefaultQueueName is used only when the controller is constructed
	// with a blank queue name.
	DefaultQueueName string
	// AttemptLaunchTimeout bounds how long the attempt monitor waits for
	// the attempt to reach LAUNCHED. Zero means DefaultAttemptLaunchTimeout.
	AttemptLaunchTimeout time.Duration
}
