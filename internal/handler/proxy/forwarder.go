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
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kaiyote/kaiyote/internal/accesscontext"
	"github.com/kaiyote/kaiyote/internal/handler/middleware/http/errorhandler"
	"github.com/kaiyote/kaiyote/internal/kaiyote"
	"github.com/kaiyote/kaiyote/internal/rules"
	"github.com/kaiyote/kaiyote/internal/x/errorchain"
	"github.com/kaiyote/kaiyote/internal/x/httpx"
)

// Forwarder relays every request not matching a blocking rule to the upstream and the
// upstream response back to the client. Request and response bodies are fully buffered.
type Forwarder struct {
	store     rules.Store
	client    *http.Client
	base      *url.URL
	bodyLimit int64
	eh        errorhandler.ErrorHandler
}

func NewForwarder(
	store rules.Store,
	client *http.Client,
	base *url.URL,
	bodyLimit int64,
	eh errorhandler.ErrorHandler,
) *Forwarder {
	return &Forwarder{
		store:     store,
		client:    client,
		base:      base,
		bodyLimit: bodyLimit,
		eh:        eh,
	}
}

func (f *Forwarder) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	if err := f.forward(rw, req); err != nil {
		f.eh.HandleError(rw, req, err)
	}
}

func (f *Forwarder) forward(rw http.ResponseWriter, req *http.Request) error {
	ctx := req.Context()
	logger := zerolog.Ctx(ctx)

	if rule, blocked := f.store.Lookup(lookupPath(req.URL.Path)); blocked && rule.Action == rules.ActionBlock {
		accesscontext.SetRule(ctx, rule.Pattern)

		return errorchain.NewWithMessagef(kaiyote.ErrBlocked, "%s is blocked by %s", req.URL.Path, rule.Pattern)
	}

	body, err := f.readBody(rw, req)
	if err != nil {
		return err
	}

	outReq, err := f.upstreamRequest(ctx, req, body)
	if err != nil {
		return err
	}

	logger.Debug().
		Str("_method", outReq.Method).
		Str("_upstream", outReq.URL.String()).
		Msg("Forwarding request")

	resp, err := f.client.Do(outReq)
	if err != nil {
		return communicationError(err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return communicationError(err)
	}

	httpx.CopyHeaders(rw.Header(), resp.Header, "Content-Length", "Transfer-Encoding")
	rw.WriteHeader(resp.StatusCode)

	if _, err = rw.Write(respBody); err != nil {
		logger.Warn().Err(err).Msg("Failed writing response to the client")
	}

	return nil
}

func (f *Forwarder) readBody(rw http.ResponseWriter, req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}

	src := req.Body
	if f.bodyLimit > 0 {
		src = http.MaxBytesReader(rw, req.Body, f.bodyLimit)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, errorchain.NewWithMessagef(kaiyote.ErrPayloadTooLarge,
				"request body exceeds %d bytes", mbe.Limit)
		}

		return nil, errorchain.NewWithMessage(kaiyote.ErrArgument, "failed reading request body").
			CausedBy(err)
	}

	return data, nil
}

func (f *Forwarder) upstreamRequest(ctx context.Context, req *http.Request, body []byte) (*http.Request, error) {
	target := f.base.String() + req.URL.EscapedPath()
	if len(req.URL.RawQuery) != 0 {
		target += "?" + req.URL.RawQuery
	}

	var reader io.Reader
	if len(body) != 0 {
		reader = bytes.NewReader(body)
	}

	outReq, err := http.NewRequestWithContext(ctx, req.Method, target, reader)
	if err != nil {
		return nil, errorchain.NewWithMessage(kaiyote.ErrInternal, "failed creating upstream request").
			CausedBy(err)
	}

	httpx.CopyHeaders(outReq.Header, req.Header, "Host", "Content-Length")

	// an empty value stops the client from sending its default User-Agent
	if _, ok := outReq.Header["User-Agent"]; !ok {
		outReq.Header.Set("User-Agent", "")
	}

	if err = httpx.ValidateHeaders(outReq.Header); err != nil {
		return nil, errorchain.NewWithMessage(kaiyote.ErrInternal, "invalid upstream request header").
			CausedBy(err)
	}

	return outReq, nil
}

// lookupPath returns the path rules are matched against. Dot segments are resolved
// there, while the path sent to the upstream stays as received.
func lookupPath(reqPath string) string {
	if !strings.HasPrefix(reqPath, "/") {
		return reqPath
	}

	return path.Clean(reqPath)
}

func communicationError(err error) error {
	var netErr net.Error

	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return errorchain.NewWithMessage(kaiyote.ErrCommunicationTimeout, "upstream request timed out").
			CausedBy(err)
	}

	return errorchain.NewWithMessage(kaiyote.ErrCommunication, "upstream request failed").CausedBy(err)
}
