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

package prometheus

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New instruments the wrapped handler with request counter, duration and in-flight
// metrics. All metrics carry the service name as a constant label, so the middleware can
// be used for several services sharing the same registry.
func New(options ...Option) func(http.Handler) http.Handler {
	conf := &opts{
		registerer:      prometheus.DefaultRegisterer,
		namespace:       "kaiyote",
		filterOperation: func(_ *http.Request) bool { return true },
	}

	for _, opt := range options {
		opt(conf)
	}

	constLabels := prometheus.Labels{"service": conf.serviceName}

	requestsTotal := register(conf.registerer, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   conf.namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Count all http requests by status code and method.",
			ConstLabels: constLabels,
		},
		[]string{"code", "method"},
	))

	requestDuration := register(conf.registerer, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   conf.namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "Duration of all HTTP requests by status code and method.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
		[]string{"code", "method"},
	))

	requestsInFlight := register(conf.registerer, prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   conf.namespace,
			Subsystem:   "http",
			Name:        "requests_in_progress",
			Help:        "All the requests in progress.",
			ConstLabels: constLabels,
		},
	))

	return func(next http.Handler) http.Handler {
		instrumented := promhttp.InstrumentHandlerInFlight(requestsInFlight,
			promhttp.InstrumentHandlerDuration(requestDuration,
				promhttp.InstrumentHandlerCounter(requestsTotal, next)))

		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			if !conf.filterOperation(req) {
				next.ServeHTTP(rw, req)

				return
			}

			instrumented.ServeHTTP(rw, req)
		})
	}
}

// register registers the given collector and returns the already registered one, if
// there is any.
func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	if err := registerer.Register(collector); err != nil {
		are := &prometheus.AlreadyRegisteredError{}
		if errors.As(err, are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}

		panic(err)
	}

	return collector
}
