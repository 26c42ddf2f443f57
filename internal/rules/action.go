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
	"errors"
	"fmt"
)

var ErrUnknownAction = errors.New("unknown action")

type Action int

const (
	ActionBlock Action = iota + 1
)

func (a Action) String() string {
	switch a {
	case ActionBlock:
		return "block"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

func (a Action) MarshalText() ([]byte, error) {
	if a != ActionBlock {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, int(a))
	}

	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	switch string(text) {
	case "block":
		*a = ActionBlock

		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, text)
	}
}
