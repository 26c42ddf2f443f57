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

package proxy

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ccoveille/go-safecast"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kaiyote/kaiyote/internal/config"
	"github.com/kaiyote/kaiyote/internal/handler/control"
	"github.com/kaiyote/kaiyote/internal/handler/middleware/http/accesslog"
	"github.com/kaiyote/kaiyote/internal/handler/middleware/http/dump"
	"github.com/kaiyote/kaiyote/internal/handler/middleware/http/errorhandler"
	"github.com/kaiyote/kaiyote/internal/handler/middleware/http/logger"
	"github.com/kaiyote/kaiyote/internal/handler/middleware/http/otelmetrics"
	"github.com/kaiyote/kaiyote/internal/handler/middleware/http/passthrough"
	prommiddleware "github.com/kaiyote/kaiyote/internal/handler/middleware/http/prometheus"
	"github.com/kaiyote/kaiyote/internal/handler/middleware/http/recovery"
	"github.com/kaiyote/kaiyote/internal/handler/service"
	"github.com/kaiyote/kaiyote/internal/kaiyote"
	"github.com/kaiyote/kaiyote/internal/rules"
	"github.com/kaiyote/kaiyote/internal/x"
	"github.com/kaiyote/kaiyote/internal/x/errorchain"
	"github.com/kaiyote/kaiyote/internal/x/httpx"
	"github.com/kaiyote/kaiyote/internal/x/loggeradapter"
)

func newErrorHandler(cfg config.ServeConfig) errorhandler.ErrorHandler {
	return errorhandler.New(
		errorhandler.WithVerboseErrors(cfg.Respond.Verbose),
		errorhandler.WithBlockedErrorCode(cfg.Respond.With.BlockedError.Code),
		errorhandler.WithArgumentErrorCode(cfg.Respond.With.ArgumentError.Code),
		errorhandler.WithCommunicationErrorCode(cfg.Respond.With.CommunicationError.Code),
		errorhandler.WithNoRouteErrorCode(cfg.Respond.With.NoRouteError.Code),
		errorhandler.WithMethodErrorCode(cfg.Respond.With.MethodError.Code),
		errorhandler.WithPayloadErrorCode(cfg.Respond.With.PayloadError.Code),
		errorhandler.WithInternalServerErrorCode(cfg.Respond.With.InternalError.Code),
	)
}

func newService(
	conf *config.Configuration,
	reg prometheus.Registerer,
	log zerolog.Logger,
	store rules.Store,
) (*http.Server, error) {
	cfg := conf.Serve
	eh := newErrorHandler(cfg)

	base, err := conf.Upstream.BaseURL()
	if err != nil {
		return nil, errorchain.NewWithMessage(kaiyote.ErrConfiguration, "invalid upstream url").CausedBy(err)
	}

	bodyLimit, err := safecast.ToInt64(uint64(cfg.BufferLimit.Body))
	if err != nil {
		return nil, errorchain.NewWithMessage(kaiyote.ErrConfiguration, "invalid body limit").CausedBy(err)
	}

	maxHeaderBytes, err := safecast.ToInt(uint64(cfg.BufferLimit.Read))
	if err != nil {
		return nil, errorchain.NewWithMessage(kaiyote.ErrConfiguration, "invalid read buffer limit").CausedBy(err)
	}

	hc := alice.New(
		otelhttp.NewMiddleware("",
			otelhttp.WithServerName(cfg.Address()),
			otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
				return fmt.Sprintf("EntryPoint %s %s%s",
					strings.ToLower(x.IfThenElse(req.TLS != nil, "https", "http")),
					httpx.LocalAddress(req), req.URL.Path)
			}),
		),
		otelmetrics.New(
			otelmetrics.WithSubsystem("proxy"),
			otelmetrics.WithServerName(cfg.Address()),
		),
		x.IfThenElseExec(conf.Metrics.Enabled,
			func() func(http.Handler) http.Handler {
				return prommiddleware.New(
					prommiddleware.WithServiceName("proxy"),
					prommiddleware.WithRegisterer(reg),
				)
			},
			func() func(http.Handler) http.Handler { return passthrough.New },
		),
		accesslog.New(log),
		logger.New(log),
		recovery.New(eh),
		dump.New(),
		x.IfThenElseExec(cfg.CORS != nil,
			func() func(http.Handler) http.Handler {
				return cors.New(
					cors.Options{
						AllowedOrigins:   cfg.CORS.AllowedOrigins,
						AllowedMethods:   cfg.CORS.AllowedMethods,
						AllowedHeaders:   cfg.CORS.AllowedHeaders,
						AllowCredentials: cfg.CORS.AllowCredentials,
						ExposedHeaders:   cfg.CORS.ExposedHeaders,
						MaxAge:           int(cfg.CORS.MaxAge.Seconds()),
					},
				).Handler
			},
			func() func(http.Handler) http.Handler { return passthrough.New },
		),
	).Then(service.NewHandler(
		control.Prefix,
		control.New(store, eh),
		NewForwarder(store, newUpstreamClient(conf.Upstream), base, bodyLimit, eh),
	))

	return &http.Server{
		Handler:        hc,
		ReadTimeout:    cfg.Timeout.Read,
		WriteTimeout:   cfg.Timeout.Write,
		IdleTimeout:    cfg.Timeout.Idle,
		MaxHeaderBytes: maxHeaderBytes,
		ErrorLog:       loggeradapter.NewStdLogger(log),
	}, nil
}
