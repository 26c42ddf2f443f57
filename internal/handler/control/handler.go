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

package control

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/justinas/alice"

	"github.com/kaiyote/kaiyote/internal/handler/middleware/http/errorhandler"
	"github.com/kaiyote/kaiyote/internal/handler/middleware/http/methodfilter"
	"github.com/kaiyote/kaiyote/internal/kaiyote"
	"github.com/kaiyote/kaiyote/internal/rules"
	"github.com/kaiyote/kaiyote/internal/x/errorchain"
)

// Prefix is the path prefix all control commands are served under.
const Prefix = "/control/"

const (
	commandBlock   = "block"
	commandUnblock = "unblock"

	routeParameter = "route"
)

type handler struct {
	store rules.Store
	eh    errorhandler.ErrorHandler
}

// New returns the handler for the control commands. It expects request paths starting
// with Prefix. Only POST requests are accepted.
func New(store rules.Store, eh errorhandler.ErrorHandler) http.Handler {
	return alice.New(methodfilter.New(eh, http.MethodPost)).Then(&handler{store: store, eh: eh})
}

func (h *handler) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	msg, err := h.execute(req)
	if err != nil {
		h.eh.HandleError(rw, req, err)

		return
	}

	rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	rw.Header().Set("X-Content-Type-Options", "nosniff")
	rw.WriteHeader(http.StatusOK)
	rw.Write([]byte(msg)) //nolint:errcheck
}

func (h *handler) execute(req *http.Request) (string, error) {
	command := strings.TrimPrefix(req.URL.Path, Prefix)

	switch command {
	case commandBlock:
		pattern, err := h.pattern(req)
		if err != nil {
			return "", err
		}

		if err = h.store.Insert(pattern, rules.ActionBlock); err != nil {
			return "", err
		}

		return fmt.Sprintf("Route '%s' blocked", pattern), nil
	case commandUnblock:
		pattern, err := h.pattern(req)
		if err != nil {
			return "", err
		}

		removed, err := h.store.Remove(pattern)
		if err != nil {
			return "", err
		}

		if !removed {
			return fmt.Sprintf("Route '%s' unblocked (was not blocked)", pattern), nil
		}

		return fmt.Sprintf("Route '%s' unblocked", pattern), nil
	default:
		return "", errorchain.NewWithMessagef(kaiyote.ErrNoRoute, "unknown control command %q", command)
	}
}

func (h *handler) pattern(req *http.Request) (string, error) {
	route := req.URL.Query().Get(routeParameter)
	if len(route) == 0 {
		return "", errorchain.NewWithMessage(kaiyote.ErrArgument, "missing route parameter")
	}

	return rules.CanonicalPattern(route)
}
