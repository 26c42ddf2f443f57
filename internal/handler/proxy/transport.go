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

package proxy

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/kaiyote/kaiyote/internal/config"
	"github.com/kaiyote/kaiyote/internal/x/httpx"
)

func newTransport(conf config.UpstreamConfig) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   conf.Timeout.Dial,
			KeepAlive: 30 * time.Second, //nolint:mnd
		}).DialContext,
		ResponseHeaderTimeout: conf.Timeout.ResponseHeader,
		MaxIdleConns:          conf.ConnectionsLimit.MaxIdle,
		MaxIdleConnsPerHost:   conf.ConnectionsLimit.MaxIdlePerHost,
		MaxConnsPerHost:       conf.ConnectionsLimit.MaxPerHost,
		IdleConnTimeout:       conf.Timeout.Idle,
		TLSHandshakeTimeout:   10 * time.Second, //nolint:mnd
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
		// bodies are relayed as received
		DisableCompression: true,
	}
}

func newUpstreamClient(conf config.UpstreamConfig) *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(
			httpx.NewDumpRoundTripper(newTransport(conf)),
			otelhttp.WithPropagators(upstreamPropagator(conf, otel.GetTextMapPropagator())),
			otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
				return fmt.Sprintf("%s %s %s @%s", req.Proto, req.Method, req.URL.Path, req.URL.Host)
			}),
		),
		// redirects are the business of the downstream client
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error { return http.ErrUseLastResponse },
	}
}

// upstreamPropagator returns the propagator used for forwarded requests. Without
// propagation nothing is injected and trace headers of the client pass through as is.
func upstreamPropagator(conf config.UpstreamConfig, global propagation.TextMapPropagator) propagation.TextMapPropagator {
	if conf.PropagateTraceContext {
		return global
	}

	return propagation.NewCompositeTextMapPropagator()
}
