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

package errorchain_test

import (
	"encoding/xml"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiyote/kaiyote/internal/x/errorchain"
)

var (
	errUpstream = errors.New("upstream error")
	errDial     = errors.New("dial failed")
	errRefused  = errors.New("connection refused")
)

func TestErrorChainCreation(t *testing.T) {
	t.Parallel()

	for uc, tc := range map[string]struct {
		create func() *errorchain.ErrorChain
		expMsg string
	}{
		"without message": {
			create: func() *errorchain.ErrorChain { return errorchain.New(errUpstream) },
			expMsg: "upstream error",
		},
		"with message": {
			create: func() *errorchain.ErrorChain { return errorchain.NewWithMessage(errUpstream, "foo") },
			expMsg: "upstream error: foo",
		},
		"with formatted message": {
			create: func() *errorchain.ErrorChain { return errorchain.NewWithMessagef(errUpstream, "%s-%d", "foo", 1) },
			expMsg: "upstream error: foo-1",
		},
		"with causes": {
			create: func() *errorchain.ErrorChain {
				return errorchain.NewWithMessage(errUpstream, "foo").CausedBy(errDial).CausedBy(errRefused)
			},
			expMsg: "upstream error: foo: dial failed: connection refused",
		},
		"nil cause is ignored": {
			create: func() *errorchain.ErrorChain { return errorchain.New(errUpstream).CausedBy(nil) },
			expMsg: "upstream error",
		},
	} {
		t.Run(uc, func(t *testing.T) {
			t.Parallel()

			// WHEN
			err := tc.create()

			// THEN
			require.Error(t, err)
			require.ErrorIs(t, err, errUpstream)
			assert.Equal(t, tc.expMsg, err.Error())
		})
	}
}

func TestErrorChainUnwrapping(t *testing.T) {
	t.Parallel()

	// GIVEN
	err := errorchain.NewWithMessage(errUpstream, "foo").CausedBy(errDial).CausedBy(errRefused)

	// WHEN
	var wrapped error = err

	// THEN
	require.ErrorIs(t, wrapped, errUpstream)
	require.ErrorIs(t, wrapped, errDial)
	require.ErrorIs(t, wrapped, errRefused)
	assert.Equal(t, []error{errUpstream, errDial, errRefused}, err.Errors())
	assert.Equal(t, "foo", err.Message())
	assert.NoError(t, errorchain.New(errUpstream).Unwrap())
}

func TestErrorChainAs(t *testing.T) {
	t.Parallel()

	// GIVEN
	cause := &testError{msg: "bar"}
	err := errorchain.New(errUpstream).CausedBy(cause)

	// WHEN
	var target *testError

	ok := errors.As(err, &target)

	// THEN
	require.True(t, ok)
	assert.Equal(t, cause, target)
}

func TestErrorChainMarshalling(t *testing.T) {
	t.Parallel()

	// GIVEN
	err := errorchain.NewWithMessage(errUpstream, "foo").CausedBy(errDial)

	// WHEN
	jsonRes, jsonErr := err.MarshalJSON()
	xmlRes, xmlErr := xml.Marshal(err)

	// THEN
	require.NoError(t, jsonErr)
	require.NoError(t, xmlErr)
	assert.JSONEq(t, `{"code":"upstreamError","message":"foo"}`, string(jsonRes))
	assert.Equal(t, `<error><code>upstreamError</code><message>foo</message></error>`, string(xmlRes))
}

type testError struct {
	msg string
}

func (e *testError) Error() string { return e.msg }
