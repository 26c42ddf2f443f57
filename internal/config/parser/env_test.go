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

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKoanfFromEnv(t *testing.T) {
	// GIVEN
	t.Setenv("FOO_SERVE_PORT", "3000")
	t.Setenv("FOO_SERVE_RESPOND_VERBOSE", "true")
	t.Setenv("FOO_RULES_BLOCK_0", "/admin")
	t.Setenv("FOO_RULES_BLOCK_2", "/internal")
	t.Setenv("FOO_LIST_1_NAME", "second")
	t.Setenv("FOO_SOME__KEY", "value")

	// WHEN
	konf, err := koanfFromEnv("FOO_")

	// THEN
	require.NoError(t, err)

	assert.Equal(t, 3000, konf.Get("serve.port"))
	assert.Equal(t, true, konf.Get("serve.respond.verbose"))
	assert.Equal(t, "value", konf.Get("some_key"))
	assert.Equal(t, []any{"/admin", nil, "/internal"}, konf.Get("rules.block"))

	list, ok := konf.Get("list").([]any)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Nil(t, list[0])
	assert.Equal(t, map[string]any{"name": "second"}, list[1])
}

func TestKoanfFromEnvWithoutPrefix(t *testing.T) {
	t.Parallel()

	// WHEN
	konf, err := koanfFromEnv("")

	// THEN
	require.NoError(t, err)
	assert.Nil(t, konf)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	for uc, tc := range map[string]struct {
		dest any
		src  any
		exp  any
	}{
		"scalar replaces scalar": {dest: 1, src: 2, exp: 2},
		"map replaces scalar":    {dest: 1, src: map[string]any{"a": 1}, exp: map[string]any{"a": 1}},
		"maps are merged": {
			dest: map[string]any{"a": 1, "b": map[string]any{"c": 2}},
			src:  map[string]any{"b": map[string]any{"d": 3}},
			exp:  map[string]any{"a": 1, "b": map[string]any{"c": 2, "d": 3}},
		},
		"slices are merged entry wise": {
			dest: []any{"a", "b"},
			src:  []any{nil, "c", "d"},
			exp:  []any{"a", "c", "d"},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.exp, merge(tc.dest, tc.src))
		})
	}
}
