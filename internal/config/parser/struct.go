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
	"strings"

	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/kaiyote/kaiyote/internal/kaiyote"
	"github.com/kaiyote/kaiyote/internal/x/errorchain"
)

// koanfFromStruct seeds koanf with the defaults held by conf. Env variables are
// matched by lower casing their names, so every key must be lower case itself.
func koanfFromStruct(conf any) (*koanf.Koanf, error) {
	konf := koanf.New(".")
	if err := konf.Load(structs.Provider(conf, "koanf"), nil); err != nil {
		return nil, errorchain.NewWithMessage(kaiyote.ErrConfiguration, "failed loading defaults").
			CausedBy(err)
	}

	for _, key := range konf.Keys() {
		if key != strings.ToLower(key) {
			return nil, errorchain.NewWithMessagef(kaiyote.ErrConfiguration,
				"key %s is not lower case, set a `koanf` tag on the field", key)
		}
	}

	return konf, nil
}
