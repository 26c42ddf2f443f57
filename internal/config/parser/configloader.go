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

package parser

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

type ConfigLoader interface {
	Load(config any) error
}

// New creates a loader, which merges the following sources into the given config struct.
// Later ones take precedence:
//
//   - the values already present in the struct
//   - the yaml file, if configured
//   - environment variables starting with the configured prefix
//   - explicit overrides
func New(opts ...Option) ConfigLoader {
	loader := &configLoader{}

	for _, opt := range opts {
		opt(&loader.o)
	}

	return loader
}

type configLoader struct {
	o opts
}

func (c *configLoader) Load(config any) error {
	konf, err := koanfFromStruct(config)
	if err != nil {
		return err
	}

	sources := []func() (*koanf.Koanf, error){
		func() (*koanf.Koanf, error) { return koanfFromYaml(c.o.configFile) },
		func() (*koanf.Koanf, error) { return koanfFromEnv(c.o.envPrefix) },
		func() (*koanf.Koanf, error) { return koanfFromMap(c.o.overrides) },
	}

	for _, load := range sources {
		src, err := load()
		if err != nil {
			return err
		}

		if src == nil {
			continue
		}

		if err = konf.Load(confmap.Provider(src.Raw(), ""), nil, koanf.WithMergeFunc(mergeInto)); err != nil {
			return err
		}
	}

	return konf.UnmarshalWithConf("", config, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.ComposeDecodeHookFunc(c.o.decodeHooks...),
			Result:           config,
			WeaklyTypedInput: true,
		},
	})
}

func mergeInto(src, dest map[string]any) error {
	for key, val := range src {
		dest[key] = merge(dest[key], val)
	}

	return nil
}
