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

package httpx

import (
	"net/http"
	"net/http/httputil"
	"strings"

	"github.com/rs/zerolog"
)

type dumpRoundTripper struct {
	next http.RoundTripper
}

// NewDumpRoundTripper wraps rt and dumps outbound requests and inbound responses
// if the logger attached to the request context is at trace level.
func NewDumpRoundTripper(rt http.RoundTripper) http.RoundTripper {
	return &dumpRoundTripper{next: rt}
}

func (d *dumpRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	logger := zerolog.Ctx(req.Context())
	if logger.GetLevel() != zerolog.TraceLevel {
		return d.next.RoundTrip(req)
	}

	if dump, err := httputil.DumpRequestOut(req, dumpable(req.ContentLength, req.Header)); err != nil {
		logger.Trace().Err(err).Msg("Failed dumping upstream request")
	} else {
		logger.Trace().Msg("Upstream request: \n" + string(dump))
	}

	resp, err := d.next.RoundTrip(req)
	if err != nil {
		logger.Trace().Err(err).Msg("Upstream request failed")

		return nil, err
	}

	if dump, err := httputil.DumpResponse(resp, dumpable(resp.ContentLength, resp.Header)); err != nil {
		logger.Trace().Err(err).Msg("Failed dumping upstream response")
	} else {
		logger.Trace().Msg("Upstream response: \n" + string(dump))
	}

	return resp, nil
}

// streamed content is never dumped as that would require reading it completely.
func dumpable(contentLength int64, header http.Header) bool {
	contentType := header.Get("Content-Type")

	return contentLength != 0 &&
		!strings.Contains(contentType, "stream") &&
		!strings.Contains(contentType, "application/x-ndjson")
}
