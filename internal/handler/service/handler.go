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

package service

import (
	"net/http"
	"strings"
)

type handler struct {
	prefix  string
	control http.Handler
	forward http.Handler
}

// NewHandler routes requests with paths starting with the given prefix to the control
// handler and all other requests to the forward handler. Paths are used as received.
func NewHandler(prefix string, control, forward http.Handler) http.Handler {
	return &handler{prefix: prefix, control: control, forward: forward}
}

func (h *handler) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	if strings.HasPrefix(req.URL.Path, h.prefix) {
		h.control.ServeHTTP(rw, req)

		return
	}

	h.forward.ServeHTTP(rw, req)
}
