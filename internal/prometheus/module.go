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
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"

	"github.com/kaiyote/kaiyote/version"
)

// Module provides the registry shared by the proxy and management services.
// nolint: gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		fx.Annotate(
			newRegistry,
			fx.As(new(prometheus.Registerer)),
			fx.As(new(prometheus.Gatherer)),
		),
	),
)

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()

	for _, collector := range []prometheus.Collector{
		collectors.NewBuildInfoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(collectors.WithGoCollections(collectors.GoRuntimeMetricsCollection)),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace:   "kaiyote",
				Name:        "build_info",
				Help:        "Always 1, labeled with the version of the running kaiyote binary.",
				ConstLabels: prometheus.Labels{"version": version.Version, "goversion": runtime.Version()},
			},
			func() float64 { return 1 },
		),
	} {
		reg.MustRegister(collector)
	}

	return reg
}
