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

package exporters

import (
	"context"
	"fmt"

	instana "github.com/instana/go-otel-exporter"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/kaiyote/kaiyote/internal/x/errorchain"
)

func spanExporterFactories() factories[trace.SpanExporter] {
	return factories[trace.SpanExporter]{
		signal: "traces",
		noop:   func() trace.SpanExporter { return noopSpanExporter{} },
		byName: map[string]factory[trace.SpanExporter]{
			exporterOTLP: func(ctx context.Context) (trace.SpanExporter, error) {
				switch proto := otlpProtocol("traces"); proto {
				case protocolGRPC:
					return otlptracegrpc.New(ctx)
				case protocolHTTPProt:
					return otlptracehttp.New(ctx)
				default:
					return nil, errorchain.NewWithMessage(ErrUnsupportedOTLPProtocol, proto)
				}
			},
			"zipkin": func(_ context.Context) (trace.SpanExporter, error) {
				return zipkin.New("")
			},
			"instana": func(_ context.Context) (exp trace.SpanExporter, err error) { //nolint:nonamedreturns
				// the instana exporter panics on missing INSTANA_* settings
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("%v", r) //nolint:err113
					}
				}()

				return instana.New(), nil
			},
		},
	}
}

// NewSpanExporters creates the span exporters selected by OTEL_TRACES_EXPORTER.
func NewSpanExporters(ctx context.Context) ([]trace.SpanExporter, error) {
	return spanExporterFactories().fromEnv(ctx, "OTEL_TRACES_EXPORTER")
}
