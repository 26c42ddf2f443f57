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

package config

import "github.com/rs/zerolog"

type LogFormat int

const (
	LogTextFormat LogFormat = iota
	LogGelfFormat
)

func (f LogFormat) String() string {
	if f == LogGelfFormat {
		return "gelf"
	}

	return "text"
}

type LoggingConfig struct {
	Format LogFormat      `koanf:"format,string"`
	Level  zerolog.Level  `koanf:"level,string"`
	File   *LogFileConfig `koanf:"file,omitempty"`
}

// LogFileConfig enables writing logs to a rotated file instead of stdout.
type LogFileConfig struct {
	Path       string `koanf:"path"        validate:"required"`
	MaxSize    int    `koanf:"max_size"    validate:"gte=0"`
	MaxBackups int    `koanf:"max_backups" validate:"gte=0"`
	MaxAge     int    `koanf:"max_age"     validate:"gte=0"`
	Compress   bool   `koanf:"compress"`
}
