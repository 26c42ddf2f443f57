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

package proxy

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/kaiyote/kaiyote/internal/config"
	"github.com/kaiyote/kaiyote/internal/handler/fxlcm"
	"github.com/kaiyote/kaiyote/internal/rules"
)

var Module = fx.Invoke( // nolint: gochecknoglobals
	fx.Annotate(
		newLifecycleManager,
		fx.OnStart(func(ctx context.Context, lcm *fxlcm.LifecycleManager) error { return lcm.Start(ctx) }),
		fx.OnStop(func(ctx context.Context, lcm *fxlcm.LifecycleManager) error { return lcm.Stop(ctx) }),
	),
)

type serviceArgs struct {
	fx.In

	Config     *config.Configuration
	Registerer prometheus.Registerer
	Logger     zerolog.Logger
	Store      rules.Store
}

func newLifecycleManager(args serviceArgs) (*fxlcm.LifecycleManager, error) {
	srv, err := newService(args.Config, args.Registerer, args.Logger, args.Store)
	if err != nil {
		return nil, err
	}

	return &fxlcm.LifecycleManager{
		ServiceName:    "Proxy",
		ServiceAddress: args.Config.Serve.Address(),
		Server:         srv,
		Logger:         args.Logger,
	}, nil
}
