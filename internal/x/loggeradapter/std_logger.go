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

package loggeradapter

import (
	"log"
	"strings"

	"github.com/rs/zerolog"
)

type stdLogWriter struct {
	l zerolog.Logger
}

func (w stdLogWriter) Write(data []byte) (int, error) {
	w.l.Error().Msg(strings.TrimSpace(string(data)))

	return len(data), nil
}

// NewStdLogger returns a logger writing all messages at error level to the given zerolog
// logger. Used to capture errors http.Server reports.
func NewStdLogger(logger zerolog.Logger) *log.Logger {
	return log.New(stdLogWriter{l: logger}, "", 0)
}
