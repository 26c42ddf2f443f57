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
	"sort"
	"strconv"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/kaiyote/kaiyote/internal/kaiyote"
	"github.com/kaiyote/kaiyote/internal/x/errorchain"
)

// koanfFromEnv reads all variables starting with prefix. The remaining name is lower cased,
// "_" is used as hierarchy separator and "__" stands for a literal "_". Numeric path
// elements address slice entries, e.g. PREFIX_RULES_BLOCK_0=/admin.
func koanfFromEnv(prefix string) (*koanf.Koanf, error) {
	if len(prefix) == 0 {
		return nil, nil //nolint:nilnil
	}

	flat := koanf.New(".")

	if err := flat.Load(env.Provider(".", env.Opt{
		Prefix:        prefix,
		TransformFunc: func(key, val string) (string, any) { return envKeyToPath(prefix, key), toRealType(val) },
	}), nil); err != nil {
		return nil, errorchain.NewWithMessage(kaiyote.ErrConfiguration,
			"failed to parse environment variables to config").CausedBy(err)
	}

	nested, ok := toSlices(maps.Unflatten(flat.All(), ".")).(map[string]any)
	if !ok {
		return nil, errorchain.NewWithMessage(kaiyote.ErrConfiguration,
			"environment variables must not address the configuration root as a list")
	}

	parser := koanf.New(".")
	if err := parser.Load(confmap.Provider(nested, ""), nil); err != nil {
		return nil, errorchain.NewWithMessage(kaiyote.ErrConfiguration,
			"failed to parse environment variables to config").CausedBy(err)
	}

	return parser, nil
}

func envKeyToPath(prefix, key string) string {
	const escapedUnderscore = "\x00"

	path := strings.ToLower(strings.TrimPrefix(key, prefix))
	path = strings.ReplaceAll(path, "__", escapedUnderscore)
	path = strings.ReplaceAll(path, "_", ".")

	return strings.ReplaceAll(path, escapedUnderscore, "_")
}

// toRealType makes use of the yaml parser to guess the type of the given value.
func toRealType(val string) any {
	var parsed map[string]any

	if err := yaml.Unmarshal([]byte("val: "+val), &parsed); err != nil {
		return val
	}

	return parsed["val"]
}

// toSlices converts maps, which have numeric keys only, into slices. Missing indexes
// result in nil entries.
func toSlices(value any) any {
	mp, ok := value.(map[string]any)
	if !ok {
		return value
	}

	for key, val := range mp {
		mp[key] = toSlices(val)
	}

	indexes := make([]int, 0, len(mp))

	for key := range mp {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return mp
		}

		indexes = append(indexes, idx)
	}

	if len(indexes) == 0 {
		return mp
	}

	sort.Ints(indexes)

	slice := make([]any, indexes[len(indexes)-1]+1)
	for _, idx := range indexes {
		slice[idx] = mp[strconv.Itoa(idx)]
	}

	return slice
}
