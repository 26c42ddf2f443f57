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

package rules

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/kaiyote/kaiyote/internal/kaiyote"
	"github.com/kaiyote/kaiyote/internal/x/errorchain"
	"github.com/kaiyote/kaiyote/internal/x/pathtree"
)

type Rule struct {
	Pattern string `json:"pattern"`
	Action  Action `json:"action"`
}

// Store holds the route rules and resolves them for request paths. All operations
// are safe for concurrent use.
type Store interface {
	// Insert adds a rule for the given pattern or replaces the action of an existing one.
	Insert(pattern string, action Action) error
	// Remove deletes the rule registered for exactly the given pattern and reports
	// whether there was one.
	Remove(pattern string) (bool, error)
	// Lookup returns the rule with the longest pattern matching the given path
	// segment-wise. "/api" matches "/api/users", but not "/apikey".
	Lookup(path string) (Rule, bool)
	// Rules returns a snapshot of all rules ordered by their patterns.
	Rules() []Rule
}

// CanonicalPattern validates the given pattern and returns it in the form the
// Store keeps it in.
func CanonicalPattern(pattern string) (string, error) {
	canonical, err := pathtree.Canonicalize(pattern)
	if err != nil {
		return "", invalidPattern(pattern, err)
	}

	return canonical, nil
}

type store struct {
	mut   sync.RWMutex
	rules *pathtree.Tree[Action]
	l     zerolog.Logger
}

func NewStore(logger zerolog.Logger) Store {
	return newStore(logger)
}

func newStore(logger zerolog.Logger) *store {
	return &store{
		rules: pathtree.New[Action](),
		l:     logger,
	}
}

func (s *store) Insert(pattern string, action Action) error {
	s.mut.Lock()
	canonical, replaced, err := s.rules.Add(pattern, action)
	s.mut.Unlock()

	if err != nil {
		return invalidPattern(pattern, err)
	}

	s.l.Info().
		Str("_pattern", canonical).
		Str("_action", action.String()).
		Bool("_replaced", replaced).
		Msg("Route rule added")

	return nil
}

func (s *store) Remove(pattern string) (bool, error) {
	canonical, err := CanonicalPattern(pattern)
	if err != nil {
		return false, err
	}

	s.mut.Lock()
	removed, err := s.rules.Delete(canonical)
	s.mut.Unlock()

	if err != nil {
		return false, invalidPattern(pattern, err)
	}

	s.l.Info().
		Str("_pattern", canonical).
		Bool("_removed", removed).
		Msg("Route rule removed")

	return removed, nil
}

func (s *store) Lookup(path string) (Rule, bool) {
	s.mut.RLock()
	entry, found := s.rules.Find(path)
	s.mut.RUnlock()

	if !found {
		return Rule{}, false
	}

	return Rule{Pattern: entry.Path, Action: entry.Value}, true
}

func (s *store) Rules() []Rule {
	s.mut.RLock()
	entries := s.rules.Entries()
	s.mut.RUnlock()

	result := make([]Rule, len(entries))
	for idx, entry := range entries {
		result[idx] = Rule{Pattern: entry.Path, Action: entry.Value}
	}

	return result
}

func (s *store) count() int {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return s.rules.Len()
}

func invalidPattern(pattern string, err error) error {
	return errorchain.NewWithMessagef(kaiyote.ErrArgument, "invalid route pattern %q", pattern).CausedBy(err)
}
