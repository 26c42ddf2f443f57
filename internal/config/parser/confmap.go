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
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"

	"github.com/kaiyote/kaiyote/internal/kaiyote"
	"github.com/kaiyote/kaiyote/internal/x/errorchain"
)

func koanfFromMap(values map[string]any) (*koanf.Koanf, error) {
	if len(values) == 0 {
		return nil, nil //nolint:nilnil
	}

	parser := koanf.New(".")

	if err := parser.Load(confmap.Provider(values, "."), nil); err != nil {
		return nil, errorchain.NewWithMessage(kaiyote.ErrConfiguration, "failed to apply overrides").
			CausedBy(err)
	}

	return parser, nil
}
