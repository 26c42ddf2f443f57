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

package otel

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/fx"

	"github.com/kaiyote/kaiyote/internal/config"
	"github.com/kaiyote/kaiyote/internal/x"
	"github.com/kaiyote/kaiyote/internal/x/opentelemetry/exporters"
	"github.com/kaiyote/kaiyote/internal/x/testsupport"
)

func TestInitMeterProvider(t *testing.T) {
	for _, tc := range []struct {
		uc         string
		conf       config.MetricsConfig
		setupMocks func(t *testing.T, lcMock *mockLifecycle)
		assert     func(t *testing.T, err error, reg *prometheus.Registry, logged string)
	}{
		{
			uc:   "disabled metrics",
			conf: config.MetricsConfig{Enabled: false},
			assert: func(t *testing.T, err error, _ *prometheus.Registry, logged string) {
				t.Helper()

				require.NoError(t, err)
				assert.Contains(t, logged, "metrics disabled")
			},
		},
		{
			uc:   "unsupported exporter",
			conf: config.MetricsConfig{Enabled: true},
			setupMocks: func(t *testing.T, _ *mockLifecycle) {
				t.Helper()

				t.Setenv("OTEL_METRICS_EXPORTER", "does_not_exist")
			},
			assert: func(t *testing.T, err error, _ *prometheus.Registry, _ string) {
				t.Helper()

				require.ErrorIs(t, err, exporters.ErrUnsupportedExporterType)
			},
		},
		{
			uc:   "successful initialization with prometheus exporter",
			conf: config.MetricsConfig{Enabled: true},
			setupMocks: func(t *testing.T, lcMock *mockLifecycle) {
				t.Helper()

				t.Setenv("OTEL_METRICS_EXPORTER", "prometheus")
				lcMock.On("Append",
					mock.MatchedBy(func(hook fx.Hook) bool {
						return hook.OnStop != nil
					}),
				)
			},
			assert: func(t *testing.T, err error, reg *prometheus.Registry, logged string) {
				t.Helper()

				require.NoError(t, err)
				assert.Contains(t, logged, "metrics initialized")

				mfs, err := reg.Gather()
				require.NoError(t, err)

				var names []string
				for _, mf := range mfs {
					names = append(names, mf.GetName())
				}

				assert.Contains(t, names, "target_info")
			},
		},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			// GIVEN
			setupMocks := x.IfThenElse(
				tc.setupMocks != nil,
				tc.setupMocks,
				func(t *testing.T, _ *mockLifecycle) { t.Helper() })
			lcMock := &mockLifecycle{}
			reg := prometheus.NewRegistry()
			tb := &testsupport.LogCollector{TB: t}
			logger := zerolog.New(zerolog.TestWriter{T: tb})

			setupMocks(t, lcMock)

			// WHEN
			err := initMeterProvider(
				&config.Configuration{Metrics: tc.conf},
				resource.Default(),
				reg,
				logger,
				lcMock,
			)

			// THEN
			tc.assert(t, err, reg, tb.CollectedLog())
			lcMock.AssertExpectations(t)
		})
	}
}
