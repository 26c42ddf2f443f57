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

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kaiyote/kaiyote/version"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "kaiyote",
	Short: "A transparent reverse proxy with runtime route blocking",
	Long: "kaiyote forwards every request to a single upstream service. Routes can be blocked and\n" +
		"unblocked at runtime via the control interface to simulate upstream outages.",
	Version:      version.Version,
	SilenceUsage: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		RootCmd.PrintErrln(err)
		os.Exit(1)
	}
}
