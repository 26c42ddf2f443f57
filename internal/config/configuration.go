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
	"github.com/go-viper/mapstructure/v2"

	"github.com/kaiyote/kaiyote/internal/config/parser"
	"github.com/kaiyote/kaiyote/internal/kaiyote"
	"github.com/kaiyote/kaiyote/internal/validation"
	"github.com/kaiyote/kaiyote/internal/x/errorchain"
)

type Configuration struct {
	Serve      ServeConfig      `koanf:"serve"`
	Management ManagementConfig `koanf:"management"`
	Upstream   UpstreamConfig   `koanf:"upstream"`
	Log        LoggingConfig    `koanf:"log"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Tracing    TracingConfig    `koanf:"tracing"`
	Rules      RulesConfig      `koanf:"rules"`
}

// Overrides holds configuration values given on the command line. Keys use the
// dot notation, like "upstream.url".
type Overrides map[string]any

func NewConfiguration(
	envPrefix, configFile string,
	validator validation.Validator,
	overrides Overrides,
) (*Configuration, error) {
	result := defaultConfig()

	err := parser.New(
		parser.WithEnvPrefix(envPrefix),
		parser.WithConfigFile(configFile),
		parser.WithOverrides(overrides),
		parser.WithDecodeHookFunc(mapstructure.StringToTimeDurationHookFunc()),
		parser.WithDecodeHookFunc(mapstructure.StringToSliceHookFunc(",")),
		parser.WithDecodeHookFunc(logLevelDecodeHookFunc),
		parser.WithDecodeHookFunc(logFormatDecodeHookFunc),
		parser.WithDecodeHookFunc(byteSizeDecodeHookFunc),
	).Load(result)
	if err != nil {
		return nil, errorchain.NewWithMessage(kaiyote.ErrConfiguration, "failed loading configuration").
			CausedBy(err)
	}

	if err = validator.ValidateStruct(result); err != nil {
		return nil, errorchain.NewWithMessage(kaiyote.ErrConfiguration, "invalid configuration").
			CausedBy(err)
	}

	return result, nil
}
