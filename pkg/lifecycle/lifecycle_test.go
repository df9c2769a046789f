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

package lifecycle

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestHappyPathTransitions(t *testing.T) {
	l := NewLifecycle()
	assert.Equal(t, New, l.Current())

	l.Fire(EventSubmit)
	assert.Equal(t, Submitting, l.Current())

	l.Fire(EventRegisterOK)
	assert.Equal(t, Registered, l.Current())

	l.Fire(EventFinish)
	assert.Equal(t, Finished, l.Current())
}

func TestRegisterFailedTransitionsToFailed(t *testing.T) {
	l := NewLifecycle()
	l.Fire(EventSubmit)

	l.Fire(EventRegisterFailed)
	assert.Equal(t, Failed, l.Current())

	// finish is still reachable from Failed, mirroring the controller's
	// "never started, but stop the worker anyway" finish path.
	l.Fire(EventFinish)
	assert.Equal(t, Finished, l.Current())
}

func TestIllegalTransitionIsIgnored(t *testing.T) {
	l := NewLifecycle()
	// register_ok is not valid from New; state must not change.
	l.Fire(EventRegisterOK)
	assert.Equal(t, New, l.Current())
}
