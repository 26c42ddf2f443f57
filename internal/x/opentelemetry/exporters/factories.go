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

package exporters

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/kaiyote/kaiyote/internal/x/errorchain"
)

const (
	exporterNone = "none"
	exporterOTLP = "otlp"

	protocolGRPC     = "grpc"
	protocolHTTPProt = "http/protobuf"
	protocolHTTPJSON = "http/json"
)

var (
	ErrUnsupportedExporterType = errors.New("unsupported exporter type")
	ErrUnsupportedOTLPProtocol = errors.New("unsupported OTLP protocol")
	ErrFailedCreatingExporter  = errors.New("failed creating exporter")
)

type factory[T any] func(ctx context.Context) (T, error)

// factories maps the exporter names used in the OTEL_*_EXPORTER environment
// variables to the functions creating them.
type factories[T any] struct {
	signal string
	byName map[string]factory[T]
	noop   func() T
}

// fromEnv creates the exporters listed in the given environment variable. otlp is
// used if the variable is not set. If "none" is listed, a single noop exporter is
// returned regardless of the other entries.
func (f factories[T]) fromEnv(ctx context.Context, envKey string) ([]T, error) {
	names := []string{exporterOTLP}

	if val, ok := os.LookupEnv(envKey); ok && len(strings.TrimSpace(val)) != 0 {
		names = strings.Split(val, ",")
	}

	return f.create(ctx, names...)
}

func (f factories[T]) create(ctx context.Context, names ...string) ([]T, error) {
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
		if names[i] == exporterNone {
			return []T{f.noop()}, nil
		}
	}

	exps := make([]T, 0, len(names))

	for _, name := range names {
		create, ok := f.byName[name]
		if !ok {
			return nil, errorchain.NewWithMessagef(ErrUnsupportedExporterType, "%s %s", f.signal, name)
		}

		exp, err := create(ctx)
		if err != nil {
			return nil, errorchain.NewWithMessagef(ErrFailedCreatingExporter, "%s %s", f.signal, name).
				CausedBy(err)
		}

		exps = append(exps, exp)
	}

	return exps, nil
}

// otlpProtocol returns the OTLP protocol configured for the given signal, falling
// back to the general setting and http/protobuf.
func otlpProtocol(signal string) string {
	if val, ok := os.LookupEnv("OTEL_EXPORTER_OTLP_" + strings.ToUpper(signal) + "_PROTOCOL"); ok {
		return val
	}

	if val, ok := os.LookupEnv("OTEL_EXPORTER_OTLP_PROTOCOL"); ok {
		return val
	}

	return protocolHTTPProt
}
