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

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/fx"

	"github.com/kaiyote/kaiyote/internal/config"
	"github.com/kaiyote/kaiyote/internal/x"
	"github.com/kaiyote/kaiyote/internal/x/opentelemetry/exporters"
	"github.com/kaiyote/kaiyote/internal/x/testsupport"
)

type mockLifecycle struct{ mock.Mock }

func (m *mockLifecycle) Append(hook fx.Hook) { m.Called(hook) }

func TestInitTraceProvider(t *testing.T) {
	for _, tc := range []struct {
		uc         string
		conf       config.TracingConfig
		setupMocks func(t *testing.T, lcMock *mockLifecycle)
		assert     func(t *testing.T, err error, propagator propagation.TextMapPropagator, logged string)
	}{
		{
			uc:   "disabled tracing",
			conf: config.TracingConfig{Enabled: false},
			assert: func(t *testing.T, err error, _ propagation.TextMapPropagator, logged string) {
				t.Helper()

				require.NoError(t, err)
				assert.Contains(t, logged, "tracing disabled")
			},
		},
		{
			uc:   "unsupported exporter",
			conf: config.TracingConfig{Enabled: true},
			setupMocks: func(t *testing.T, _ *mockLifecycle) {
				t.Helper()

				t.Setenv("OTEL_TRACES_EXPORTER", "foobar")
			},
			assert: func(t *testing.T, err error, _ propagation.TextMapPropagator, _ string) {
				t.Helper()

				require.ErrorIs(t, err, exporters.ErrUnsupportedExporterType)
			},
		},
		{
			uc:   "successful initialization with simple span processor",
			conf: config.TracingConfig{Enabled: true, SpanProcessorType: config.SpanProcessorSimple},
			setupMocks: func(t *testing.T, lcMock *mockLifecycle) {
				t.Helper()

				t.Setenv("OTEL_TRACES_EXPORTER", "none")
				lcMock.On("Append",
					mock.MatchedBy(func(hook fx.Hook) bool {
						return hook.OnStop(t.Context()) == nil
					}),
				)
			},
			assert: func(t *testing.T, err error, propagator propagation.TextMapPropagator, logged string) {
				t.Helper()

				require.NoError(t, err)
				assert.Contains(t, logged, "tracing initialized")
				assert.Contains(t, propagator.Fields(), "traceparent")
				assert.Contains(t, propagator.Fields(), "baggage")
			},
		},
		{
			uc:   "successful initialization with batch span processor",
			conf: config.TracingConfig{Enabled: true, SpanProcessorType: config.SpanProcessorBatch},
			setupMocks: func(t *testing.T, lcMock *mockLifecycle) {
				t.Helper()

				t.Setenv("OTEL_TRACES_EXPORTER", "none")
				t.Setenv("OTEL_PROPAGATORS", "datadog")
				lcMock.On("Append",
					mock.MatchedBy(func(hook fx.Hook) bool {
						return hook.OnStop(t.Context()) == nil
					}),
				)
			},
			assert: func(t *testing.T, err error, propagator propagation.TextMapPropagator, logged string) {
				t.Helper()

				require.NoError(t, err)
				assert.Contains(t, logged, "tracing initialized")
				assert.NotContains(t, propagator.Fields(), "traceparent")
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
			tb := &testsupport.LogCollector{TB: t}
			logger := zerolog.New(zerolog.TestWriter{T: tb})

			setupMocks(t, lcMock)

			// WHEN
			err := initTraceProvider(
				&config.Configuration{Tracing: tc.conf},
				resource.Default(),
				logger,
				lcMock,
			)

			// THEN
			tc.assert(t, err, otel.GetTextMapPropagator(), tb.CollectedLog())
			lcMock.AssertExpectations(t)
		})
	}
}
