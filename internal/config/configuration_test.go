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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiyote/kaiyote/internal/kaiyote"
	"github.com/kaiyote/kaiyote/internal/validation"
)

func TestNewConfiguration(t *testing.T) {
	validator, err := validation.NewValidator()
	require.NoError(t, err)

	for uc, tc := range map[string]struct {
		config    string
		overrides Overrides
		assert    func(t *testing.T, err error, conf *Configuration)
	}{
		"defaults": {
			assert: func(t *testing.T, err error, conf *Configuration) {
				t.Helper()

				require.NoError(t, err)
				assert.Equal(t, "127.0.0.1:3000", conf.Serve.Address())
				assert.Equal(t, "127.0.0.1:3001", conf.Management.Address())
				assert.Equal(t, "http://127.0.0.1:8080", conf.Upstream.URL)
				assert.True(t, conf.Upstream.PropagateTraceContext)
				assert.Equal(t, 60*time.Second, conf.Serve.Timeout.Read)
				assert.Equal(t, 64*bytesize.KB, conf.Serve.BufferLimit.Read)
				assert.Zero(t, conf.Serve.BufferLimit.Body)
				assert.Equal(t, zerolog.InfoLevel, conf.Log.Level)
				assert.Equal(t, LogTextFormat, conf.Log.Format)
				assert.True(t, conf.Metrics.Enabled)
				assert.False(t, conf.Tracing.Enabled)
				assert.Equal(t, SpanProcessorBatch, conf.Tracing.SpanProcessorType)
				assert.Empty(t, conf.Rules.Block)
			},
		},
		"from file": {
			config: `
serve:
  port: 8000
  buffer_limit:
    body: 1MB
  respond:
    with:
      blocked_error:
        code: 403
upstream:
  url: https://backend.local/base/
  timeout:
    response_header: 15s
  propagate_trace_context: false
log:
  level: debug
  format: gelf
  file:
    path: /var/log/kaiyote.log
    max_size: 10
tracing:
  enabled: true
  span_processor: simple
rules:
  block:
    - /admin
    - /internal/
`,
			assert: func(t *testing.T, err error, conf *Configuration) {
				t.Helper()

				require.NoError(t, err)
				assert.Equal(t, "127.0.0.1:8000", conf.Serve.Address())
				assert.Equal(t, bytesize.MB, conf.Serve.BufferLimit.Body)
				assert.Equal(t, 403, conf.Serve.Respond.With.BlockedError.Code)
				assert.Equal(t, 15*time.Second, conf.Upstream.Timeout.ResponseHeader)
				assert.False(t, conf.Upstream.PropagateTraceContext)
				assert.Equal(t, zerolog.DebugLevel, conf.Log.Level)
				assert.Equal(t, LogGelfFormat, conf.Log.Format)
				require.NotNil(t, conf.Log.File)
				assert.Equal(t, "/var/log/kaiyote.log", conf.Log.File.Path)
				assert.Equal(t, 10, conf.Log.File.MaxSize)
				assert.True(t, conf.Tracing.Enabled)
				assert.Equal(t, SpanProcessorSimple, conf.Tracing.SpanProcessorType)
				assert.Equal(t, []string{"/admin", "/internal/"}, conf.Rules.Block)

				base, err := conf.Upstream.BaseURL()
				require.NoError(t, err)
				assert.Equal(t, "https://backend.local/base", base.String())
			},
		},
		"with overrides": {
			overrides: Overrides{
				"upstream.url": "http://10.0.0.1:9000",
				"serve.host":   "0.0.0.0",
				"serve.port":   "4000",
			},
			assert: func(t *testing.T, err error, conf *Configuration) {
				t.Helper()

				require.NoError(t, err)
				assert.Equal(t, "0.0.0.0:4000", conf.Serve.Address())
				assert.Equal(t, "http://10.0.0.1:9000", conf.Upstream.URL)
			},
		},
		"invalid upstream url": {
			overrides: Overrides{"upstream.url": "localhost:8080"},
			assert: func(t *testing.T, err error, _ *Configuration) {
				t.Helper()

				require.ErrorIs(t, err, kaiyote.ErrConfiguration)
				assert.Contains(t, err.Error(), "'url'")
			},
		},
		"invalid rule pattern": {
			config: "rules:\n  block:\n    - admin\n",
			assert: func(t *testing.T, err error, _ *Configuration) {
				t.Helper()

				require.ErrorIs(t, err, kaiyote.ErrConfiguration)
				assert.Contains(t, err.Error(), "must start with text '/'")
			},
		},
		"invalid response code": {
			config: "serve:\n  respond:\n    with:\n      blocked_error:\n        code: 200\n",
			assert: func(t *testing.T, err error, _ *Configuration) {
				t.Helper()

				require.ErrorIs(t, err, kaiyote.ErrConfiguration)
				assert.Contains(t, err.Error(), "'code'")
			},
		},
		"invalid span processor": {
			config: "tracing:\n  span_processor: foo\n",
			assert: func(t *testing.T, err error, _ *Configuration) {
				t.Helper()

				require.ErrorIs(t, err, kaiyote.ErrConfiguration)
				assert.Contains(t, err.Error(), "'span_processor'")
			},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			var configFile string

			if len(tc.config) != 0 {
				configFile = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(configFile, []byte(tc.config), 0o600))
			}

			// WHEN
			conf, err := NewConfiguration("KAIYOTECFGTEST_", configFile, validator, tc.overrides)

			// THEN
			tc.assert(t, err, conf)
		})
	}
}

func TestLogFormatString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text", LogTextFormat.String())
	assert.Equal(t, "gelf", LogGelfFormat.String())
}
