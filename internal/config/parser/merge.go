// Copyright 2022 Dimitrij Drus <dadrus@gmx.de>
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

// merge combines src into dest. Maps are merged key by key and slices entry by entry.
// Any other value in src replaces the one in dest.
func merge(dest, src any) any {
	switch srcVal := src.(type) {
	case map[string]any:
		destVal, ok := dest.(map[string]any)
		if !ok {
			return srcVal
		}

		for key, val := range srcVal {
			destVal[key] = merge(destVal[key], val)
		}

		return destVal
	case []any:
		destVal, ok := dest.([]any)
		if !ok {
			return srcVal
		}

		if len(destVal) < len(srcVal) {
			grown := make([]any, len(srcVal))
			copy(grown, destVal)
			destVal = grown
		}

		for idx, val := range srcVal {
			if val != nil {
				destVal[idx] = merge(destVal[idx], val)
			}
		}

		return destVal
	default:
		return src
	}
}
