// Copyright 2022 Dimitrij Drus <dadrus@gmx.de>
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

package management

import (
	"fmt"
	"net/http"

	"github.com/go-http-utils/etag"
	"github.com/goccy/go-json"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kaiyote/kaiyote/internal/handler/middleware/http/errorhandler"
	"github.com/kaiyote/kaiyote/internal/handler/middleware/http/methodfilter"
	"github.com/kaiyote/kaiyote/internal/kaiyote"
	"github.com/kaiyote/kaiyote/internal/rules"
	"github.com/kaiyote/kaiyote/internal/x/errorchain"
)

const (
	EndpointHealth  = "/.well-known/health"
	EndpointRules   = "/rules"
	EndpointMetrics = "/metrics"
)

// errLoggerFunc adapts a zerolog logger to the promhttp.Logger interface.
type errLoggerFunc func(v ...any)

func (l errLoggerFunc) Println(v ...any) { l(v...) }

type handlerArgs struct {
	store          rules.Store
	eh             errorhandler.ErrorHandler
	metricsEnabled bool
	registerer     prometheus.Registerer
	gatherer       prometheus.Gatherer
	logger         zerolog.Logger
}

func newManagementHandler(args handlerArgs) http.Handler {
	mux := http.NewServeMux()
	getOnly := alice.New(methodfilter.New(args.eh, http.MethodGet, http.MethodHead))

	mux.Handle(EndpointHealth, getOnly.Then(health(args.eh)))
	mux.Handle(EndpointRules, getOnly.Then(etag.Handler(listRules(args.store, args.eh), false)))

	if args.metricsEnabled {
		mux.Handle(EndpointMetrics, getOnly.Then(
			promhttp.InstrumentMetricHandler(
				args.registerer,
				promhttp.HandlerFor(
					args.gatherer,
					promhttp.HandlerOpts{
						Registry: args.registerer,
						ErrorLog: errLoggerFunc(func(v ...any) {
							args.logger.Error().Msg(fmt.Sprint(v...))
						}),
					},
				),
			),
		))
	}

	mux.Handle("/", http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		args.eh.HandleError(rw, req, errorchain.NewWithMessagef(kaiyote.ErrNoRoute,
			"no management endpoint for %s", req.URL.Path))
	}))

	return mux
}

func health(eh errorhandler.ErrorHandler) http.Handler {
	type status struct {
		Status string `json:"status"`
	}

	return writeJSON(func() any { return status{Status: "ok"} }, eh)
}

func listRules(store rules.Store, eh errorhandler.ErrorHandler) http.Handler {
	return writeJSON(func() any {
		if snapshot := store.Rules(); len(snapshot) != 0 {
			return snapshot
		}

		return []rules.Rule{}
	}, eh)
}

func writeJSON(payload func() any, eh errorhandler.ErrorHandler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		data, err := json.Marshal(payload())
		if err != nil {
			eh.HandleError(rw, req, errorchain.NewWithMessage(kaiyote.ErrInternal,
				"failed rendering response").CausedBy(err))

			return
		}

		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(http.StatusOK)
		rw.Write(data) //nolint:errcheck
	})
}
