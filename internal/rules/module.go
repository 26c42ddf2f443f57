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

package rules

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/kaiyote/kaiyote/internal/config"
	"github.com/kaiyote/kaiyote/internal/kaiyote"
	"github.com/kaiyote/kaiyote/internal/x/errorchain"
)

// Module is invoked on app bootstrapping.
// nolint: gochecknoglobals
var Module = fx.Options(
	fx.Provide(newSeededStore),
)

type storeArgs struct {
	fx.In

	Config     *config.Configuration
	Logger     zerolog.Logger
	Registerer prometheus.Registerer
}

func newSeededStore(args storeArgs) (Store, error) {
	str := newStore(args.Logger)

	for _, pattern := range args.Config.Rules.Block {
		if err := str.Insert(pattern, ActionBlock); err != nil {
			return nil, errorchain.NewWithMessage(kaiyote.ErrConfiguration, "failed seeding route rules").
				CausedBy(err)
		}
	}

	args.Logger.Info().Int("_rules", str.count()).Msg("Rule store initialized")

	if err := args.Registerer.Register(newRulesCollector(str)); err != nil {
		return nil, errorchain.NewWithMessage(kaiyote.ErrInternal, "failed registering rules metrics").
			CausedBy(err)
	}

	return str, nil
}
