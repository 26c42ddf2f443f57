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

package otel

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"

	"github.com/kaiyote/kaiyote/internal/config"
	"github.com/kaiyote/kaiyote/internal/x/opentelemetry/exporters"
	"github.com/kaiyote/kaiyote/internal/x/opentelemetry/propagators"
)

func spanProcessorFor(kind config.SpanProcessorType, exporter trace.SpanExporter) trace.SpanProcessor {
	if kind == config.SpanProcessorSimple {
		return trace.NewSimpleSpanProcessor(exporter)
	}

	return trace.NewBatchSpanProcessor(exporter)
}

func initTraceProvider(
	conf *config.Configuration,
	res *resource.Resource,
	logger zerolog.Logger,
	lifecycle fx.Lifecycle,
) error {
	if !conf.Tracing.Enabled {
		logger.Info().Msg("OpenTelemetry tracing disabled.")

		return nil
	}

	spanExporters, err := exporters.NewSpanExporters(context.Background())
	if err != nil {
		return err
	}

	opts := []trace.TracerProviderOption{trace.WithResource(res)}
	for _, exporter := range spanExporters {
		opts = append(opts, trace.WithSpanProcessor(spanProcessorFor(conf.Tracing.SpanProcessorType, exporter)))
	}

	provider := trace.NewTracerProvider(opts...)

	otel.SetTextMapPropagator(propagators.New())
	otel.SetTracerProvider(provider)

	lifecycle.Append(shutdownHook(logger, "tracer", provider.Shutdown))

	logger.Info().
		Str("_span_processor", string(conf.Tracing.SpanProcessorType)).
		Int("_exporters", len(spanExporters)).
		Msg("OpenTelemetry tracing initialized.")

	return nil
}

func shutdownHook(logger zerolog.Logger, kind string, shutdown func(context.Context) error) fx.Hook {
	return fx.StopHook(func(ctx context.Context) error {
		logger.Info().Msgf("Tearing down OpenTelemetry %s provider", kind)

		return shutdown(ctx)
	})
}
