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

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/kaiyote/kaiyote/internal/x/errorchain"
)

func metricReaderFactories(reg promclient.Registerer) factories[metric.Reader] {
	return factories[metric.Reader]{
		signal: "metrics",
		noop:   func() metric.Reader { return metric.NewPeriodicReader(noopMetricExporter{}) },
		byName: map[string]factory[metric.Reader]{
			exporterOTLP: func(ctx context.Context) (metric.Reader, error) {
				var (
					exp metric.Exporter
					err error
				)

				switch proto := otlpProtocol("metrics"); proto {
				case protocolGRPC:
					exp, err = otlpmetricgrpc.New(ctx)
				case protocolHTTPProt, protocolHTTPJSON:
					exp, err = otlpmetrichttp.New(ctx)
				default:
					err = errorchain.NewWithMessage(ErrUnsupportedOTLPProtocol, proto)
				}

				if err != nil {
					return nil, err
				}

				return metric.NewPeriodicReader(exp), nil
			},
			// otel instruments end up in the registry served on the management /metrics endpoint
			"prometheus": func(_ context.Context) (metric.Reader, error) {
				return prometheus.New(prometheus.WithRegisterer(reg))
			},
		},
	}
}

// NewMetricReaders creates the metric readers selected by OTEL_METRICS_EXPORTER.
// The prometheus reader registers its collector with reg.
func NewMetricReaders(ctx context.Context, reg promclient.Registerer) ([]metric.Reader, error) {
	return metricReaderFactories(reg).fromEnv(ctx, "OTEL_METRICS_EXPORTER")
}
