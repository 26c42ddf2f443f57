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

package recovery

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiyote/kaiyote/internal/kaiyote"
)

type errorHandlerFunc func(rw http.ResponseWriter, req *http.Request, err error)

func (f errorHandlerFunc) HandleError(rw http.ResponseWriter, req *http.Request, err error) {
	f(rw, req, err)
}

func TestHandlerExecution(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc       string
		handler  http.HandlerFunc
		expCode  int
		expCause string
	}{
		{
			uc: "no panic",
			handler: func(rw http.ResponseWriter, _ *http.Request) {
				rw.WriteHeader(http.StatusAccepted)
			},
			expCode: http.StatusAccepted,
		},
		{
			uc: "panic with error",
			handler: func(_ http.ResponseWriter, _ *http.Request) {
				panic(errors.New("test error"))
			},
			expCode:  http.StatusInternalServerError,
			expCause: "test error",
		},
		{
			uc: "panic with string",
			handler: func(_ http.ResponseWriter, _ *http.Request) {
				panic("something went wrong")
			},
			expCode:  http.StatusInternalServerError,
			expCause: "something went wrong",
		},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			var handledErr error

			eh := errorHandlerFunc(func(rw http.ResponseWriter, _ *http.Request, err error) {
				handledErr = err

				rw.WriteHeader(http.StatusInternalServerError)
			})

			rec := httptest.NewRecorder()

			// WHEN
			New(eh)(tc.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/foo", nil))

			// THEN
			assert.Equal(t, tc.expCode, rec.Code)

			if len(tc.expCause) == 0 {
				require.NoError(t, handledErr)

				return
			}

			require.Error(t, handledErr)
			require.ErrorIs(t, handledErr, kaiyote.ErrInternal)
			assert.Contains(t, handledErr.Error(), "runtime error occurred")
			assert.Contains(t, handledErr.Error(), tc.expCause)
		})
	}
}

func TestHandlerRepanicsOnAbort(t *testing.T) {
	t.Parallel()

	// GIVEN
	handler := New(errorHandlerFunc(func(_ http.ResponseWriter, _ *http.Request, _ error) {}))(
		http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) { panic(http.ErrAbortHandler) }))

	// WHEN & THEN
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/foo", nil))
	})
}
