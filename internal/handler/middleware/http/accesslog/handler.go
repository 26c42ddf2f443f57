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

package accesslog

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kaiyote/kaiyote/internal/accesscontext"
	"github.com/kaiyote/kaiyote/internal/kaiyote"
	"github.com/kaiyote/kaiyote/internal/x"
	"github.com/kaiyote/kaiyote/internal/x/httpx"
	"github.com/kaiyote/kaiyote/internal/x/opentelemetry/tracecontext"
)

var forwardingHeaders = [...]struct{ header, field string }{ //nolint:gochecknoglobals
	{header: "X-Forwarded-Proto", field: "_http_x_forwarded_proto"},
	{header: "X-Forwarded-Host", field: "_http_x_forwarded_host"},
	{header: "X-Forwarded-For", field: "_http_x_forwarded_for"},
	{header: "Forwarded", field: "_http_forwarded"},
}

// New logs a "TX started" and a "TX finished" entry for each request. It creates the
// access context, downstream handlers record the matched rule and errors in.
func New(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			ctx := accesscontext.New(req.Context())
			req = req.WithContext(ctx)

			txLog := transactionLogger(logger, req)
			txLog.Info().Msg("TX started")

			metrics := httpsnoop.CaptureMetrics(next, rw, req)

			withOutcome(ctx, txLog.Info()).
				Int("_http_status_code", metrics.Code).
				Int64("_body_bytes_sent", metrics.Written).
				Int64("_tx_duration_ms", metrics.Duration.Milliseconds()).
				Msg("TX finished")
		})
	}
}

func transactionLogger(logger zerolog.Logger, req *http.Request) zerolog.Logger {
	fields := logger.Level(zerolog.InfoLevel).With().
		Str("_tx_id", uuid.NewString()).
		Int64("_tx_start", time.Now().Unix()).
		Str("_client_ip", httpx.IPFromHostPort(req.RemoteAddr)).
		Str("_http_method", req.Method).
		Str("_http_path", req.URL.Path).
		Str("_http_user_agent", req.Header.Get("User-Agent")).
		Str("_http_host", req.Host).
		Str("_http_scheme", x.IfThenElse(req.TLS != nil, "https", "http"))

	if traceCtx := tracecontext.Extract(req.Context()); traceCtx != nil {
		fields = fields.Str("_trace_id", traceCtx.TraceID).Str("_span_id", traceCtx.SpanID)
	}

	for _, fh := range forwardingHeaders {
		if value := req.Header.Get(fh.header); len(value) != 0 {
			fields = fields.Str(fh.field, value)
		}
	}

	return fields.Logger()
}

func withOutcome(ctx context.Context, event *zerolog.Event) *zerolog.Event {
	err := accesscontext.Error(ctx)

	if rule := accesscontext.Rule(ctx); len(rule) != 0 {
		event = event.Str("_rule", rule)
	}

	if err != nil {
		event = event.Err(err)
	}

	return event.Bool("_blocked", errors.Is(err, kaiyote.ErrBlocked))
}
