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

package dump

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httputil"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/rs/zerolog"
)

type responseDump struct {
	proto   string
	headers http.Header
	started bool
	buf     bytes.Buffer
}

func (d *responseDump) begin(code int) {
	if d.started {
		return
	}

	d.started = true
	d.buf.WriteString(d.proto)

	if text := http.StatusText(code); len(text) != 0 {
		d.buf.WriteString(" " + strconv.Itoa(code) + " " + text + "\r\n")
	} else {
		fmt.Fprintf(&d.buf, " %03d status code %d\r\n", code, code)
	}

	d.headers.Write(&d.buf) //nolint:errcheck
	d.buf.WriteString("\r\n")
}

func (d *responseDump) hooks() httpsnoop.Hooks {
	return httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				d.begin(code)
				next(code)
			}
		},
		Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(data []byte) (int, error) {
				d.begin(http.StatusOK)
				d.buf.Write(data)

				return next(data)
			}
		},
	}
}

func (d *responseDump) String() string {
	d.begin(http.StatusOK)

	return d.buf.String()
}

// New returns a middleware writing raw dumps of requests and responses to the
// request scoped logger. Nothing is dumped unless that logger runs at trace level.
func New() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			logger := zerolog.Ctx(req.Context())
			if logger.GetLevel() > zerolog.TraceLevel {
				next.ServeHTTP(rw, req)

				return
			}

			raw, err := httputil.DumpRequest(req, req.ContentLength != 0)
			if err != nil {
				logger.Trace().Err(err).Msg("Failed dumping request")
			} else {
				logger.Trace().Msg("Request: " + string(raw))
			}

			resp := &responseDump{proto: req.Proto, headers: rw.Header()}

			next.ServeHTTP(httpsnoop.Wrap(rw, resp.hooks()), req)

			logger.Trace().Msg("Response: " + resp.String())
		})
	}
}
