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
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidPath = errors.New("invalid path")

type (
	// Entry is a value stored in the tree together with the canonical form of the path
	// it has been added for.
	Entry[V any] struct {
		Path  string
		Value V
	}

	// Tree is a trie keyed by path segments. Lookups resolve the longest stored
	// path, which is a segment-wise prefix of the given one. The tree is not safe
	// for concurrent use.
	Tree[V any] struct {
		root node[V]
		size int
	}

	node[V any] struct {
		children map[string]*node[V]
		value    V
		hasValue bool
	}
)

func New[V any]() *Tree[V] {
	return &Tree[V]{}
}

// Canonicalize returns the canonical form of the given path. The path must start
// with a slash. Empty segments are dropped, so "/foo//bar/" becomes "/foo/bar".
func Canonicalize(path string) (string, error) {
	segments, err := split(path)
	if err != nil {
		return "", err
	}

	return join(segments), nil
}

// Add stores value under path. An already present value for the same canonical path
// is replaced. It returns the canonical path and whether a value has been replaced.
func (t *Tree[V]) Add(path string, value V) (string, bool, error) {
	segments, err := split(path)
	if err != nil {
		return "", false, err
	}

	current := &t.root

	for _, segment := range segments {
		if current.children == nil {
			current.children = make(map[string]*node[V])
		}

		child, ok := current.children[segment]
		if !ok {
			child = &node[V]{}
			current.children[segment] = child
		}

		current = child
	}

	replaced := current.hasValue
	if !replaced {
		t.size++
	}

	current.value = value
	current.hasValue = true

	return join(segments), replaced, nil
}

// Delete removes the value stored for exactly the given path. Nodes, which carry
// neither a value nor children afterwards, are pruned.
func (t *Tree[V]) Delete(path string) (bool, error) {
	segments, err := split(path)
	if err != nil {
		return false, err
	}

	if !t.root.delete(segments) {
		return false, nil
	}

	t.size--

	return true, nil
}

// Find returns the entry stored for the longest path, whose segments are a prefix of
// the segments of the given path. Paths, which do not start with a slash, never match.
func (t *Tree[V]) Find(path string) (Entry[V], bool) {
	var (
		result  Entry[V]
		found   bool
		matched int
	)

	segments, err := split(path)
	if err != nil {
		return result, false
	}

	current := &t.root
	if current.hasValue {
		result.Value, found = current.value, true
	}

	for idx, segment := range segments {
		child, ok := current.children[segment]
		if !ok {
			break
		}

		current = child
		if current.hasValue {
			result.Value, found, matched = current.value, true, idx+1
		}
	}

	if found {
		result.Path = join(segments[:matched])
	}

	return result, found
}

// Entries returns all stored entries ordered by their path.
func (t *Tree[V]) Entries() []Entry[V] {
	entries := make([]Entry[V], 0, t.size)

	t.root.collect(nil, &entries)

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	return entries
}

func (t *Tree[V]) Len() int { return t.size }

func (n *node[V]) delete(segments []string) bool {
	if len(segments) == 0 {
		if !n.hasValue {
			return false
		}

		var zero V

		n.value, n.hasValue = zero, false

		return true
	}

	child, ok := n.children[segments[0]]
	if !ok || !child.delete(segments[1:]) {
		return false
	}

	if !child.hasValue && len(child.children) == 0 {
		delete(n.children, segments[0])
	}

	return true
}

func (n *node[V]) collect(prefix []string, entries *[]Entry[V]) {
	if n.hasValue {
		*entries = append(*entries, Entry[V]{Path: join(prefix), Value: n.value})
	}

	for segment, child := range n.children {
		child.collect(append(prefix[:len(prefix):len(prefix)], segment), entries)
	}
}

func split(path string) ([]string, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: %q does not start with '/'", ErrInvalidPath, path)
	}

	raw := strings.Split(path, "/")
	segments := raw[:0]

	for _, segment := range raw {
		if len(segment) != 0 {
			segments = append(segments, segment)
		}
	}

	return segments, nil
}

func join(segments []string) string {
	return "/" + strings.Join(segments, "/")
}
