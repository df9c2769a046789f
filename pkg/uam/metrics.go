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

// Metrics is the subset of pkg/metrics.UAMMetrics the controller and its
// worker care about. Kept as an interface so tests can run without
// registering anything against a prometheus registry, and so this package
// never imports the metrics package directly.
type Metrics interface {
	SetPendingRequests(n int)
	ObserveAllocate(outcome string, seconds float64)
	SetLastResponseID(id int32)
	IncReRegister()
}

type noopMetrics struct{}

func (noopMetrics) SetPendingRequests(int)          {}
func (noopMetrics) ObserveAllocate(string, float64) {}
func (noopMetrics) SetLastResponseID(int32)         {}
func (noopMetrics) IncReRegister()                  {}
