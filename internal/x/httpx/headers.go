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
	"fmt"
	"net/http"

	"golang.org/x/net/http/httpguts"
)

// CopyHeaders copies all entries from src to dst, except the ones named in skip.
// Header names in skip must be given in canonical form.
func CopyHeaders(dst, src http.Header, skip ...string) {
	for name, values := range src {
		if contains(skip, http.CanonicalHeaderKey(name)) {
			continue
		}

		for _, value := range values {
			dst.Add(name, value)
		}
	}
}

// ValidateHeaders reports the first header field, which is not allowed on the wire.
func ValidateHeaders(header http.Header) error {
	for name, values := range header {
		if !httpguts.ValidHeaderFieldName(name) {
			return fmt.Errorf("%w: %q", ErrInvalidHeaderName, name)
		}

		for _, value := range values {
			if !httpguts.ValidHeaderFieldValue(value) {
				return fmt.Errorf("%w for %q", ErrInvalidHeaderValue, name)
			}
		}
	}

	return nil
}

func contains(names []string, name string) bool {
	for _, candidate := range names {
		if candidate == name {
			return true
		}
	}

	return false
}
