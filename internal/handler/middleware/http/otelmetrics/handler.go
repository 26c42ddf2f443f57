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
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/kaiyote/kaiyote/internal/x"
	"github.com/kaiyote/kaiyote/internal/x/httpx"
)

const (
	instrumentationName = "github.com/kaiyote/kaiyote/internal/handler/middleware/http/otelmetrics"

	requestsActive = "http.server.active_requests"
)

var knownMethods = map[string]struct{}{ //nolint:gochecknoglobals
	http.MethodConnect: {}, http.MethodDelete: {}, http.MethodGet: {},
	http.MethodHead: {}, http.MethodOptions: {}, http.MethodPatch: {},
	http.MethodPost: {}, http.MethodPut: {}, http.MethodTrace: {},
}

// New counts the requests in flight. The counter shares the labels otelhttp uses for
// its own metrics, so the subsystem is added to the otelhttp labeler as well.
func New(options ...Option) func(http.Handler) http.Handler {
	conf := newConfig(options...)

	activeRequests, err := conf.provider.Meter(instrumentationName).Int64UpDownCounter(
		requestsActive,
		metric.WithDescription("Number of HTTP requests currently in-flight."),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		panic(err)
	}

	var subsystem []attribute.KeyValue
	if len(conf.subsystem) != 0 {
		subsystem = append(subsystem, serviceSubsystemKey.String(conf.subsystem))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			if !conf.measure(req) {
				next.ServeHTTP(rw, req)

				return
			}

			ctx := req.Context()

			labeler, _ := otelhttp.LabelerFromContext(ctx)
			labeler.Add(subsystem...)

			attrs := labeler.Get()
			attrs = append(attrs, requestAttributes(conf.server, req)...)
			attrs = append(attrs, conf.static...)
			opt := metric.WithAttributes(attrs...)

			activeRequests.Add(ctx, 1, opt)
			defer activeRequests.Add(ctx, -1, opt)

			next.ServeHTTP(rw, req)
		})
	}
}

func requestAttributes(server string, req *http.Request) []attribute.KeyValue {
	host, port := httpx.HostPort(req.Host)
	if len(server) != 0 {
		if srvHost, srvPort := httpx.HostPort(server); srvPort > 0 {
			host, port = srvHost, srvPort
		} else {
			host = srvHost
		}
	}

	method := strings.ToUpper(req.Method)
	if _, known := knownMethods[method]; !known {
		method = "_OTHER"
	}

	attrs := []attribute.KeyValue{
		semconv.HTTPRequestMethodKey.String(method),
		semconv.URLScheme(x.IfThenElse(req.TLS != nil, "https", "http")),
		semconv.ServerAddress(host),
	}

	if port > 0 {
		attrs = append(attrs, semconv.ServerPort(port))
	}

	return attrs
}
