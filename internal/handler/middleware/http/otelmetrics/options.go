// Copyright 2023 Dimitrij Drus <dadrus@gmx.de>
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

package otelmetrics

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const serviceSubsystemKey = attribute.Key("service.subsystem")

type OperationFilter func(req *http.Request) bool

type config struct {
	server    string
	subsystem string
	provider  metric.MeterProvider
	static    []attribute.KeyValue
	measure   OperationFilter
}

type Option func(*config)

// WithMeterProvider overrides the globally registered meter provider.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(c *config) {
		if provider != nil {
			c.provider = provider
		}
	}
}

// WithAttributes adds attributes to every recorded measurement.
func WithAttributes(kv ...attribute.KeyValue) Option {
	return func(c *config) { c.static = append(c.static, kv...) }
}

// WithOperationFilter restricts the measurements to requests the filter returns true for.
func WithOperationFilter(filter OperationFilter) Option {
	return func(c *config) {
		if filter != nil {
			c.measure = filter
		}
	}
}

// WithServerName sets the host:port reported as server address. The Host header
// is used otherwise.
func WithServerName(name string) Option {
	return func(c *config) { c.server = name }
}

// WithSubsystem names the service the measurements belong to, like "proxy".
func WithSubsystem(name string) Option {
	return func(c *config) { c.subsystem = name }
}

func newConfig(options ...Option) *config {
	conf := &config{
		provider: otel.GetMeterProvider(),
		measure:  func(*http.Request) bool { return true },
	}

	for _, opt := range options {
		opt(conf)
	}

	return conf
}
