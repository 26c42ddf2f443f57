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

package logging

import "github.com/rs/zerolog"

// gelfLevels maps zerolog levels to the syslog severities GELF expects in its
// "level" field. Unknown levels are reported as emergency (0).
var gelfLevels = map[zerolog.Level]int8{ //nolint:gochecknoglobals
	zerolog.TraceLevel: 7, //nolint:mnd
	zerolog.DebugLevel: 7, //nolint:mnd
	zerolog.InfoLevel:  6, //nolint:mnd
	zerolog.WarnLevel:  4, //nolint:mnd
	zerolog.ErrorLevel: 3, //nolint:mnd
	zerolog.FatalLevel: 2, //nolint:mnd
	zerolog.PanicLevel: 1,
}

type gelfLevelHook struct{}

func (gelfLevelHook) Run(evt *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel {
		return
	}

	evt.Int8("level", gelfLevels[level])
}
