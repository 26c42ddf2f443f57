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

package testsupport

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
)

// LogCollector is meant to be used together with zerolog.TestWriter to
// capture the log output of a test instead of printing it.
type LogCollector struct {
	testing.TB

	mut sync.Mutex
	buf bytes.Buffer
}

func (c *LogCollector) Log(args ...any) {
	c.mut.Lock()
	defer c.mut.Unlock()

	if _, err := c.buf.WriteString(fmt.Sprint(args...)); err != nil {
		c.Error(err)
	}
}

func (c *LogCollector) Logf(format string, args ...any) {
	c.mut.Lock()
	defer c.mut.Unlock()

	if _, err := c.buf.WriteString(fmt.Sprintf(format, args...)); err != nil {
		c.Error(err)
	}
}

func (c *LogCollector) CollectedLog() string {
	c.mut.Lock()
	defer c.mut.Unlock()

	return c.buf.String()
}
