// Copyright 2022-2025 Dimitrij Drus <dadrus@gmx.de>
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

package serve

import (
	"bytes"
	"net"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/kaiyote/kaiyote/cmd/flags"
	"github.com/kaiyote/kaiyote/internal"
	"github.com/kaiyote/kaiyote/internal/config"
	"github.com/kaiyote/kaiyote/internal/kaiyote"
	"github.com/kaiyote/kaiyote/internal/logging"
	"github.com/kaiyote/kaiyote/internal/validation"
	"github.com/kaiyote/kaiyote/internal/x/errorchain"
	"github.com/kaiyote/kaiyote/version"
)

func createApp(cmd *cobra.Command) (*fx.App, error) {
	configPath, _ := cmd.Flags().GetString(flags.Config)
	envPrefix, _ := cmd.Flags().GetString(flags.EnvironmentConfigPrefix)
	cli := bytes.NewBufferString(cmd.CommandPath())

	cmd.Flags().Visit(func(flag *pflag.Flag) {
		cli.WriteString(" --")
		cli.WriteString(flag.Name)

		if flag.Value.Type() != "bool" {
			cli.WriteString(" ")
			cli.WriteString(flag.Value.String())
		}
	})

	overrides, err := configOverrides(cmd)
	if err != nil {
		return nil, err
	}

	validator, err := validation.NewValidator()
	if err != nil {
		return nil, err
	}

	cfg, err := config.NewConfiguration(envPrefix, configPath, validator, overrides)
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(cfg.Log)
	logger.Info().
		Str("_version", version.Version).
		Str("_cli", cli.String()).
		Str("_upstream", cfg.Upstream.URL).
		Msg("Starting kaiyote")

	app := fx.New(
		fx.Supply(
			cfg,
			logger,
			fx.Annotate(validator, fx.As(new(validation.Validator))),
		),
		fx.WithLogger(func(logger zerolog.Logger) fxevent.Logger {
			return &eventLogger{l: logger}
		}),
		internal.Module,
	)

	return app, app.Err()
}

// configOverrides translates the --target and --bind flags into configuration keys.
// Flags not set explicitly do not override anything.
func configOverrides(cmd *cobra.Command) (config.Overrides, error) {
	overrides := config.Overrides{}

	if cmd.Flags().Changed(flags.Target) {
		target, _ := cmd.Flags().GetString(flags.Target)
		overrides["upstream.url"] = target
	}

	if cmd.Flags().Changed(flags.Bind) {
		bind, _ := cmd.Flags().GetString(flags.Bind)

		host, port, err := net.SplitHostPort(bind)
		if err != nil {
			return nil, errorchain.NewWithMessagef(kaiyote.ErrArgument, "invalid bind address %q", bind).
				CausedBy(err)
		}

		portNum, err := strconv.Atoi(port)
		if err != nil {
			return nil, errorchain.NewWithMessagef(kaiyote.ErrArgument, "invalid port in bind address %q", bind).
				CausedBy(err)
		}

		overrides["serve.host"] = host
		overrides["serve.port"] = portNum
	}

	return overrides, nil
}
