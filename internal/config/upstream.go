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
	"net/url"
	"strings"
	"time"
)

type UpstreamConfig struct {
	URL              string           `koanf:"url"               validate:"required,http_url"`
	Timeout          UpstreamTimeout  `koanf:"timeout"`
	ConnectionsLimit ConnectionsLimit `koanf:"connections_limit"`
	// PropagateTraceContext controls whether trace context headers are injected into
	// forwarded requests while tracing is enabled.
	PropagateTraceContext bool `koanf:"propagate_trace_context"`
}

// BaseURL returns the parsed upstream URL without a trailing slash in its path, so
// that inbound request paths can be appended as is.
func (c UpstreamConfig) BaseURL() (*url.URL, error) {
	target, err := url.Parse(c.URL)
	if err != nil {
		return nil, err
	}

	target.Path = strings.TrimSuffix(target.Path, "/")
	target.RawPath = strings.TrimSuffix(target.RawPath, "/")
	target.RawQuery = ""
	target.Fragment = ""

	return target, nil
}

type UpstreamTimeout struct {
	Dial           time.Duration `koanf:"dial,string"`
	ResponseHeader time.Duration `koanf:"response_header,string"`
	Idle           time.Duration `koanf:"idle,string"`
}

type ConnectionsLimit struct {
	MaxPerHost     int `koanf:"max_per_host"      validate:"gte=0"`
	MaxIdle        int `koanf:"max_idle"          validate:"gte=0"`
	MaxIdlePerHost int `koanf:"max_idle_per_host" validate:"gte=0"`
}
