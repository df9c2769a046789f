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

// Package uamconfig loads uam.Config from a YAML file, the same way the
// scheduler core loads its own configuration: plain yaml.v3 unmarshalling
// into a file-shaped struct, then a conversion step into the types the
// rest of the client actually uses (milliseconds on disk, time.Duration
// in memory).
package uamconfig

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/apache/hadoop-yarn-uam-client/pkg/uam"
)

const (
	defaultPollIntervalMs         = 1000
	defaultAttemptLaunchTimeoutMs = 10000
)

// fileConfig is the on-disk shape. Durations are expressed in
// milliseconds, matching the configuration keys named in the external
// interfaces this client exposes (poll_interval_ms, attempt_launch_timeout_ms).
type fileConfig struct {
	PollIntervalMs         int64  `yaml:"poll_interval_ms"`
	DefaultQueueName       string `yaml:"default_queue_name"`
	AttemptLaunchTimeoutMs int64  `yaml:"attempt_launch_timeout_ms"`
}

// Load reads and parses path into a uam.Config. A missing poll interval or
// attempt-launch timeout falls back to this package's defaults rather than
// zero, so a config file that only sets default_queue_name still produces
// a usable Config.
func Load(path string) (*uam.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses raw YAML bytes into a uam.Config, the same split between
// I/O and decoding the corpus uses for config loading so tests can drive
// the decode path without touching the filesystem.
func Parse(data []byte) (*uam.Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}

	pollIntervalMs := fc.PollIntervalMs
	if pollIntervalMs <= 0 {
		pollIntervalMs = defaultPollIntervalMs
	}
	attemptLaunchTimeoutMs := fc.AttemptLaunchTimeoutMs
	if attemptLaunchTimeoutMs <= 0 {
		attemptLaunchTimeoutMs = defaultAttemptLaunchTimeoutMs
	}

	return &uam.Config{
		PollInterval:         time.Duration(pollIntervalMs) * time.Millisecond,
		DefaultQueueName:     fc.DefaultQueueName,
		AttemptLaunchTimeout: time.Duration(attemptLaunchTimeoutMs) * time.Millisecond,
	}, nil
}
