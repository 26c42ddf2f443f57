// Copyright 2023 Dimitrij Drus <dadrus@gmx.de>
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

package fxlcm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/kaiyote/kaiyote/internal/kaiyote"
	"github.com/kaiyote/kaiyote/internal/x/errorchain"
)

type Server interface {
	Serve(l net.Listener) error
	Shutdown(ctx context.Context) error
}

// LifecycleManager binds the listener of a service on start and serves it in the
// background. It is meant to be registered as fx.Hook.
type LifecycleManager struct {
	ServiceName    string
	ServiceAddress string
	Server         Server
	Logger         zerolog.Logger
	// Exit terminates the process if the service fails after it has been started.
	// Defaults to os.Exit.
	Exit func(code int)

	listener net.Listener
}

func (m *LifecycleManager) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", m.ServiceAddress)
	if err != nil {
		return errorchain.NewWithMessagef(kaiyote.ErrInternal,
			"could not create listener for %s service", m.ServiceName).
			CausedBy(err)
	}

	m.listener = ln

	go func() {
		m.Logger.Info().
			Str("_address", ln.Addr().String()).
			Str("_service", m.ServiceName).
			Msg("Starting listening")

		if err := m.Server.Serve(ln); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				m.Logger.Info().Str("_service", m.ServiceName).Msg("Service stopped")

				return
			}

			m.Logger.WithLevel(zerolog.FatalLevel).Err(err).
				Str("_service", m.ServiceName).
				Msg("Could not start service")

			if m.Exit != nil {
				m.Exit(1)
			} else {
				os.Exit(1)
			}
		}
	}()

	return nil
}

func (m *LifecycleManager) Stop(ctx context.Context) error {
	m.Logger.Info().Str("_service", m.ServiceName).Msg("Tearing down service")

	err := m.Server.Shutdown(ctx)
	if err != nil {
		m.Logger.Warn().Err(err).Str("_service", m.ServiceName).Msg("Graceful shutdown failed")
	}

	return err
}

// Address returns the address the service is listening on. Available after Start only.
func (m *LifecycleManager) Address() string {
	if m.listener == nil {
		return ""
	}

	return m.listener.Addr().String()
}
