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

package pathtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeFind(t *testing.T) {
	t.Parallel()

	tree := New[string]()

	for _, path := range []string{"/api", "/api/v1/admin", "/static/", "/a//b"} {
		_, _, err := tree.Add(path, path)
		require.NoError(t, err)
	}

	for uc, tc := range map[string]struct {
		path    string
		found   bool
		expPath string
		expVal  string
	}{
		"exact match":                {path: "/api", found: true, expPath: "/api", expVal: "/api"},
		"segment prefix match":       {path: "/api/users", found: true, expPath: "/api", expVal: "/api"},
		"trailing slash":             {path: "/api/", found: true, expPath: "/api", expVal: "/api"},
		"partial segment":            {path: "/apikey", found: false},
		"longest prefix wins":        {path: "/api/v1/admin/users", found: true, expPath: "/api/v1/admin", expVal: "/api/v1/admin"},
		"shorter sibling falls back": {path: "/api/v1/other", found: true, expPath: "/api", expVal: "/api"},
		"pattern with trailing slash": {
			path: "/static/css/site.css", found: true, expPath: "/static", expVal: "/static/",
		},
		"pattern with empty segment": {path: "/a/b/c", found: true, expPath: "/a/b", expVal: "/a//b"},
		"no match":                   {path: "/other", found: false},
		"root path":                  {path: "/", found: false},
		"relative path":              {path: "api", found: false},
	} {
		t.Run(uc, func(t *testing.T) {
			t.Parallel()

			// WHEN
			entry, ok := tree.Find(tc.path)

			// THEN
			require.Equal(t, tc.found, ok)

			if tc.found {
				assert.Equal(t, tc.expPath, entry.Path)
				assert.Equal(t, tc.expVal, entry.Value)
			}
		})
	}
}

func TestTreeRootMatchesEverything(t *testing.T) {
	t.Parallel()

	// GIVEN
	tree := New[int]()

	_, _, err := tree.Add("/", 1)
	require.NoError(t, err)

	// WHEN
	entry, ok := tree.Find("/any/path")

	// THEN
	require.True(t, ok)
	assert.Equal(t, "/", entry.Path)
	assert.Equal(t, 1, entry.Value)
}

func TestTreeAddReplacesValue(t *testing.T) {
	t.Parallel()

	// GIVEN
	tree := New[int]()

	path, replaced, err := tree.Add("/api/", 1)
	require.NoError(t, err)
	require.False(t, replaced)
	require.Equal(t, "/api", path)

	// WHEN
	path, replaced, err = tree.Add("/api", 2)

	// THEN
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, "/api", path)
	assert.Equal(t, 1, tree.Len())

	entry, ok := tree.Find("/api")
	require.True(t, ok)
	assert.Equal(t, 2, entry.Value)
}

func TestTreeAddInvalidPath(t *testing.T) {
	t.Parallel()

	// WHEN
	_, _, err := New[int]().Add("api", 1)

	// THEN
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestTreeDelete(t *testing.T) {
	t.Parallel()

	// GIVEN
	tree := New[int]()

	for idx, path := range []string{"/api", "/api/v1"} {
		_, _, err := tree.Add(path, idx)
		require.NoError(t, err)
	}

	// WHEN
	removed, err := tree.Delete("/api/v1")

	// THEN
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 1, tree.Len())
	assert.Empty(t, tree.root.children["api"].children)

	entry, ok := tree.Find("/api/v1/users")
	require.True(t, ok)
	assert.Equal(t, "/api", entry.Path)

	// WHEN
	removed, err = tree.Delete("/api/v1")

	// THEN
	require.NoError(t, err)
	assert.False(t, removed)

	// WHEN
	removed, err = tree.Delete("/api/v1/users")

	// THEN
	require.NoError(t, err)
	assert.False(t, removed)

	// WHEN
	removed, err = tree.Delete("/api")

	// THEN
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Zero(t, tree.Len())
	assert.Empty(t, tree.root.children)
}

func TestTreeDeleteKeepsDescendants(t *testing.T) {
	t.Parallel()

	// GIVEN
	tree := New[int]()

	for idx, path := range []string{"/api", "/api/v1"} {
		_, _, err := tree.Add(path, idx)
		require.NoError(t, err)
	}

	// WHEN
	removed, err := tree.Delete("/api")

	// THEN
	require.NoError(t, err)
	assert.True(t, removed)

	_, ok := tree.Find("/api/users")
	assert.False(t, ok)

	entry, ok := tree.Find("/api/v1/users")
	require.True(t, ok)
	assert.Equal(t, "/api/v1", entry.Path)
}

func TestTreeEntries(t *testing.T) {
	t.Parallel()

	// GIVEN
	tree := New[string]()

	for _, path := range []string{"/b", "/a/c", "/a", "/"} {
		_, _, err := tree.Add(path, path)
		require.NoError(t, err)
	}

	// WHEN
	entries := tree.Entries()

	// THEN
	require.Len(t, entries, 4)
	assert.Equal(t, []Entry[string]{
		{Path: "/", Value: "/"},
		{Path: "/a", Value: "/a"},
		{Path: "/a/c", Value: "/a/c"},
		{Path: "/b", Value: "/b"},
	}, entries)
}

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	for path, exp := range map[string]string{
		"/":           "/",
		"//":          "/",
		"/api":        "/api",
		"/api/":       "/api",
		"/api//users": "/api/users",
	} {
		res, err := Canonicalize(path)
		require.NoError(t, err, path)
		assert.Equal(t, exp, res, path)
	}

	_, err := Canonicalize("api")
	require.ErrorIs(t, err, ErrInvalidPath)
}
