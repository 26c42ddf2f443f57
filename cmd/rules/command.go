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
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/ybbus/httpretry"

	"github.com/kaiyote/kaiyote/cmd/flags"
	"github.com/kaiyote/kaiyote/internal/handler/control"
)

const (
	defaultEndpoint = "http://127.0.0.1:3000"
	requestTimeout  = 5 * time.Second
)

var ErrCommandFailed = errors.New("control command failed")

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Blocks or unblocks routes of a running kaiyote instance",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(cmd.UsageString())
		},
	}

	cmd.PersistentFlags().StringP(flags.Endpoint, "e", defaultEndpoint,
		"The base URL of kaiyote's proxy service")

	cmd.AddCommand(
		newControlCommand("block", "Blocks the given route and all routes below it"),
		newControlCommand("unblock", "Removes the block of the given route"),
	)

	return cmd
}

func newControlCommand(command, short string) *cobra.Command {
	return &cobra.Command{
		Use:     command + " ROUTE",
		Short:   short,
		Example: fmt.Sprintf("kaiyote rules %s /api -e http://127.0.0.1:3000", command),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, _ := cmd.Flags().GetString(flags.Endpoint)

			out, err := sendCommand(cmd.Context(), newClient(), endpoint, command, args[0])
			if err != nil {
				return err
			}

			cmd.Println(out)

			return nil
		},
	}
}

func newClient() *http.Client {
	return httpretry.NewCustomClient(
		&http.Client{Timeout: requestTimeout},
		httpretry.WithMaxRetryCount(2), //nolint:mnd
		httpretry.WithBackoffPolicy(httpretry.ExponentialBackoff(100*time.Millisecond, time.Second, 0)), //nolint:mnd
	)
}

func sendCommand(ctx context.Context, client *http.Client, endpoint, command, route string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	target := strings.TrimSuffix(endpoint, "/") + control.Prefix + command + "?" +
		url.Values{"route": []string{route}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: %s: %s", ErrCommandFailed, resp.Status, strings.TrimSpace(string(body)))
	}

	return string(body), nil
}
