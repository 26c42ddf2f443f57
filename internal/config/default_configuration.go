// Copyright 2025 Dimitrij Drus <dadrus@gmx.de>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog"
)

const (
	defaultProxyPort      = 3000
	defaultManagementPort = 3001

	defaultProxyReadTimeout  = 60 * time.Second
	defaultProxyWriteTimeout = 120 * time.Second
	defaultIdleTimeout       = 2 * time.Minute

	defaultManagementReadTimeout  = 5 * time.Second
	defaultManagementWriteTimeout = 10 * time.Second

	defaultDialTimeout         = 30 * time.Second
	defaultUpstreamIdleTimeout = 90 * time.Second

	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 64

	defaultProxyHeaderLimit      = 64 * bytesize.KB
	defaultManagementHeaderLimit = 4 * bytesize.KB
)

func defaultConfig() *Configuration {
	return &Configuration{
		Serve: ServeConfig{
			Host: "127.0.0.1",
			Port: defaultProxyPort,
			Timeout: Timeout{
				Read:  defaultProxyReadTimeout,
				Write: defaultProxyWriteTimeout,
				Idle:  defaultIdleTimeout,
			},
			BufferLimit: BufferLimit{
				Read: defaultProxyHeaderLimit,
			},
		},
		Management: ManagementConfig{
			Host: "127.0.0.1",
			Port: defaultManagementPort,
			Timeout: Timeout{
				Read:  defaultManagementReadTimeout,
				Write: defaultManagementWriteTimeout,
				Idle:  defaultIdleTimeout,
			},
			BufferLimit: BufferLimit{
				Read: defaultManagementHeaderLimit,
			},
		},
		Upstream: UpstreamConfig{
			URL: "http://127.0.0.1:8080",
			Timeout: UpstreamTimeout{
				Dial: defaultDialTimeout,
				Idle: defaultUpstreamIdleTimeout,
			},
			ConnectionsLimit: ConnectionsLimit{
				MaxIdle:        defaultMaxIdleConns,
				MaxIdlePerHost: defaultMaxIdleConnsPerHost,
			},
			PropagateTraceContext: true,
		},
		Log: LoggingConfig{
			Level:  zerolog.InfoLevel,
			Format: LogTextFormat,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Tracing: TracingConfig{
			SpanProcessorType: SpanProcessorBatch,
		},
	}
}
