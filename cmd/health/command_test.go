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

package health

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHealth(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc       string
		status   int
		format   string
		expected string
		err      error
	}{
		{uc: "text output", status: http.StatusOK, format: "text", expected: "ok"},
		{uc: "json output", status: http.StatusOK, format: "json", expected: `{"status":"ok"}`},
		{uc: "yaml output", status: http.StatusOK, format: "yaml", expected: "status: ok"},
		{uc: "unknown output format", status: http.StatusOK, format: "xml", err: ErrUnknownFormat},
		{uc: "unhealthy instance", status: http.StatusNotFound, format: "text", err: ErrUnexpectedStatus},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
				assert.Equal(t, "/.well-known/health", req.URL.Path)

				rw.Header().Set("Content-Type", "application/json")
				rw.WriteHeader(tc.status)
				rw.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
			}))
			defer srv.Close()

			// WHEN
			out, err := checkHealth(t.Context(), newClient(), srv.URL+"/", tc.format)

			// THEN
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}

func TestHealthCommand(t *testing.T) {
	t.Parallel()

	// GIVEN
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	buf := bytes.NewBuffer(nil)
	cmd := NewCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"-e", srv.URL})

	// WHEN
	err := cmd.Execute()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "ok\n", buf.String())
}
