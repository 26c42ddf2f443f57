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

package parser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiyote/kaiyote/internal/kaiyote"
)

type testUpstream struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout,string"`
}

type testConfig struct {
	Port     int          `koanf:"port"`
	Upstream testUpstream `koanf:"upstream"`
	Block    []string     `koanf:"block"`
	SomeKey  string       `koanf:"some_key"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	return file
}

func TestConfigLoaderLoad(t *testing.T) {
	for uc, tc := range map[string]struct {
		setup  func(t *testing.T) []Option
		assert func(t *testing.T, err error, conf *testConfig)
	}{
		"defaults only": {
			setup: func(t *testing.T) []Option {
				t.Helper()

				return nil
			},
			assert: func(t *testing.T, err error, conf *testConfig) {
				t.Helper()

				require.NoError(t, err)
				assert.Equal(t, 3000, conf.Port)
				assert.Equal(t, "http://127.0.0.1:8080", conf.Upstream.URL)
				assert.Equal(t, 10*time.Second, conf.Upstream.Timeout)
			},
		},
		"yaml file overrides defaults": {
			setup: func(t *testing.T) []Option {
				t.Helper()

				t.Setenv("TEST_UPSTREAM_HOST", "backend")

				return []Option{WithConfigFile(writeConfig(t, `
port: 4000
upstream:
  url: http://${TEST_UPSTREAM_HOST}:9090
  timeout: 1m
block:
  - /admin
`))}
			},
			assert: func(t *testing.T, err error, conf *testConfig) {
				t.Helper()

				require.NoError(t, err)
				assert.Equal(t, 4000, conf.Port)
				assert.Equal(t, "http://backend:9090", conf.Upstream.URL)
				assert.Equal(t, time.Minute, conf.Upstream.Timeout)
				assert.Equal(t, []string{"/admin"}, conf.Block)
			},
		},
		"env overrides yaml file": {
			setup: func(t *testing.T) []Option {
				t.Helper()

				t.Setenv("KAIYOTETEST_PORT", "5000")
				t.Setenv("KAIYOTETEST_UPSTREAM_URL", "http://env:1234")
				t.Setenv("KAIYOTETEST_BLOCK_1", "/internal")
				t.Setenv("KAIYOTETEST_SOME__KEY", "value")

				return []Option{
					WithEnvPrefix("KAIYOTETEST_"),
					WithConfigFile(writeConfig(t, "port: 4000\nblock:\n  - /admin\n")),
				}
			},
			assert: func(t *testing.T, err error, conf *testConfig) {
				t.Helper()

				require.NoError(t, err)
				assert.Equal(t, 5000, conf.Port)
				assert.Equal(t, "http://env:1234", conf.Upstream.URL)
				assert.Equal(t, []string{"/admin", "/internal"}, conf.Block)
				assert.Equal(t, "value", conf.SomeKey)
			},
		},
		"overrides win over everything": {
			setup: func(t *testing.T) []Option {
				t.Helper()

				t.Setenv("KAIYOTETEST_UPSTREAM_URL", "http://env:1234")

				return []Option{
					WithEnvPrefix("KAIYOTETEST_"),
					WithOverrides(map[string]any{"upstream.url": "http://flag:1", "port": 6000}),
				}
			},
			assert: func(t *testing.T, err error, conf *testConfig) {
				t.Helper()

				require.NoError(t, err)
				assert.Equal(t, 6000, conf.Port)
				assert.Equal(t, "http://flag:1", conf.Upstream.URL)
			},
		},
		"missing config file": {
			setup: func(t *testing.T) []Option {
				t.Helper()

				return []Option{WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))}
			},
			assert: func(t *testing.T, err error, _ *testConfig) {
				t.Helper()

				require.ErrorIs(t, err, kaiyote.ErrConfiguration)
				assert.Contains(t, err.Error(), "failed to read config file")
			},
		},
		"malformed config file": {
			setup: func(t *testing.T) []Option {
				t.Helper()

				return []Option{WithConfigFile(writeConfig(t, "port: [4000"))}
			},
			assert: func(t *testing.T, err error, _ *testConfig) {
				t.Helper()

				require.ErrorIs(t, err, kaiyote.ErrConfiguration)
			},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			// GIVEN
			conf := &testConfig{
				Port:     3000,
				Upstream: testUpstream{URL: "http://127.0.0.1:8080", Timeout: 10 * time.Second},
			}

			opts := append(tc.setup(t), WithDecodeHookFunc(mapstructure.StringToTimeDurationHookFunc()))

			// WHEN
			err := New(opts...).Load(conf)

			// THEN
			tc.assert(t, err, conf)
		})
	}
}

func TestConfigLoaderRejectsUppercaseKeys(t *testing.T) {
	t.Parallel()

	// GIVEN
	type invalidConfig struct {
		Port int `koanf:"Port"`
	}

	// WHEN
	err := New().Load(&invalidConfig{})

	// THEN
	require.ErrorIs(t, err, kaiyote.ErrConfiguration)
}
