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

package serve

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kaiyote/kaiyote/cmd/flags"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the proxy and the management service",
		Example: "kaiyote serve -t http://127.0.0.1:8080 -b 127.0.0.1:3000\n" +
			"curl -X POST 'http://127.0.0.1:3000/control/block?route=/api'",
		Run: func(cmd *cobra.Command, _ []string) {
			app, err := createApp(cmd)
			if err != nil {
				cmd.PrintErrf("Failed to initialize kaiyote: %v\n", err)

				os.Exit(1)
			}

			app.Run()
		},
	}

	flags.RegisterConfigFlags(cmd)
	cmd.Flags().StringP(flags.Target, "t", "",
		"URL of the upstream service all requests are forwarded to.\n"+
			"Overrides upstream.url. Defaults to http://127.0.0.1:8080")
	cmd.Flags().StringP(flags.Bind, "b", "",
		"host:port the proxy listens on.\n"+
			"Overrides serve.host and serve.port. Defaults to 127.0.0.1:3000")

	return cmd
}
