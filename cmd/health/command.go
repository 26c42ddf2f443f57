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

package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/ybbus/httpretry"
	"gopkg.in/yaml.v3"

	"github.com/kaiyote/kaiyote/cmd/flags"
	"github.com/kaiyote/kaiyote/internal/handler/management"
)

const (
	defaultEndpoint = "http://127.0.0.1:3001"
	requestTimeout  = 5 * time.Second
)

var (
	ErrUnexpectedStatus = errors.New("unexpected HTTP status code")
	ErrUnknownFormat    = errors.New("unknown output format")
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "health",
		Short:   "Checks the health status of a running kaiyote instance",
		Example: "kaiyote health -e http://127.0.0.1:3001 -o yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			endpoint, _ := cmd.Flags().GetString(flags.Endpoint)
			format, _ := cmd.Flags().GetString(flags.Output)

			out, err := checkHealth(cmd.Context(), newClient(), endpoint, format)
			if err != nil {
				return err
			}

			cmd.Println(out)

			return nil
		},
	}

	cmd.Flags().StringP(flags.Endpoint, "e", defaultEndpoint,
		"The base URL of kaiyote's management service")
	cmd.Flags().StringP(flags.Output, "o", "text",
		`The format for the result output. Can be "json", "text", or "yaml"`)

	return cmd
}

func newClient() *http.Client {
	return httpretry.NewCustomClient(
		&http.Client{Timeout: requestTimeout},
		httpretry.WithMaxRetryCount(3), //nolint:mnd
		httpretry.WithBackoffPolicy(httpretry.ExponentialBackoff(100*time.Millisecond, time.Second, 0)), //nolint:mnd
	)
}

func checkHealth(ctx context.Context, client *http.Client, endpoint, format string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimSuffix(endpoint, "/")+management.EndpointHealth, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	rawResp, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var structured map[string]any
	if err = json.Unmarshal(rawResp, &structured); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	switch format {
	case "json":
		return string(rawResp), nil
	case "yaml":
		rawYaml, err := yaml.Marshal(structured)
		if err != nil {
			return "", fmt.Errorf("failed to convert response to yaml: %w", err)
		}

		return strings.TrimSuffix(string(rawYaml), "\n"), nil
	case "text":
		return fmt.Sprint(structured["status"]), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
