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

package internal

import (
	"go.uber.org/fx"

	"github.com/kaiyote/kaiyote/internal/handler/management"
	"github.com/kaiyote/kaiyote/internal/handler/proxy"
	"github.com/kaiyote/kaiyote/internal/otel"
	"github.com/kaiyote/kaiyote/internal/prometheus"
	"github.com/kaiyote/kaiyote/internal/rules"
)

// nolint
var Module = fx.Options(
	prometheus.Module,
	otel.Module,
	rules.Module,
	proxy.Module,
	management.Module,
)
