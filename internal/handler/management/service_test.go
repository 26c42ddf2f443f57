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

package management

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/kaiyote/kaiyote/internal/config"
	"github.com/kaiyote/kaiyote/internal/rules"
	"github.com/kaiyote/kaiyote/internal/x/testsupport"
)

type ServiceTestSuite struct {
	suite.Suite

	srv   *http.Server
	store rules.Store
	addr  string
}

func (suite *ServiceTestSuite) SetupTest() {
	port := testsupport.GetFreePort(suite.T())

	conf := &config.Configuration{
		Management: config.ManagementConfig{
			Host: "127.0.0.1",
			Port: port,
			CORS: &config.CORS{},
		},
		Metrics: config.MetricsConfig{Enabled: true},
	}

	reg := prometheus.NewRegistry()
	suite.store = rules.NewStore(zerolog.Nop())

	var err error

	suite.srv, err = newService(conf, reg, reg, zerolog.Nop(), suite.store)
	suite.Require().NoError(err)

	listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	suite.Require().NoError(err)
	suite.addr = "http://" + listener.Addr().String()

	go func() {
		suite.srv.Serve(listener)
	}()

	time.Sleep(50 * time.Millisecond)
}

func (suite *ServiceTestSuite) TearDownTest() {
	suite.srv.Shutdown(context.Background())
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (suite *ServiceTestSuite) send(method, path string, header http.Header) (*http.Response, string) {
	client := &http.Client{Transport: &http.Transport{}}

	req, err := http.NewRequestWithContext(context.TODO(), method, suite.addr+path, nil)
	suite.Require().NoError(err)

	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := client.Do(req)
	suite.Require().NoError(err)

	defer resp.Body.Close()

	rawResp, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)

	return resp, string(rawResp)
}

func (suite *ServiceTestSuite) TestHealthRequest() {
	// WHEN
	resp, body := suite.send(http.MethodGet, EndpointHealth, nil)

	// THEN
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("application/json", resp.Header.Get("Content-Type"))
	suite.JSONEq(`{ "status": "ok"}`, body)
}

func (suite *ServiceTestSuite) TestHealthRequestWithUnsupportedMethod() {
	// WHEN
	resp, _ := suite.send(http.MethodPost, EndpointHealth, nil)

	// THEN
	suite.Equal(http.StatusMethodNotAllowed, resp.StatusCode)
	suite.Equal("GET, HEAD", resp.Header.Get("Allow"))
}

func (suite *ServiceTestSuite) TestRulesRequestWithoutRules() {
	// WHEN
	resp, body := suite.send(http.MethodGet, EndpointRules, nil)

	// THEN
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.JSONEq(`[]`, body)
}

func (suite *ServiceTestSuite) TestRulesRequestWithEtagUsage() {
	// GIVEN
	suite.Require().NoError(suite.store.Insert("/api", rules.ActionBlock))
	suite.Require().NoError(suite.store.Insert("/admin/", rules.ActionBlock))

	resp1, body := suite.send(http.MethodGet, EndpointRules, nil)
	suite.Require().Equal(http.StatusOK, resp1.StatusCode)
	suite.JSONEq(`[{"pattern":"/admin","action":"block"},{"pattern":"/api","action":"block"}]`, body)

	etagValue := resp1.Header.Get("ETag")
	suite.Require().NotEmpty(etagValue)

	// WHEN
	resp2, body := suite.send(http.MethodGet, EndpointRules, http.Header{"If-None-Match": {etagValue}})

	// THEN
	suite.Equal(http.StatusNotModified, resp2.StatusCode)
	suite.Empty(body)

	// WHEN
	_, err := suite.store.Remove("/api")
	suite.Require().NoError(err)

	resp3, body := suite.send(http.MethodGet, EndpointRules, http.Header{"If-None-Match": {etagValue}})

	// THEN
	suite.Equal(http.StatusOK, resp3.StatusCode)
	suite.NotEqual(etagValue, resp3.Header.Get("ETag"))
	suite.JSONEq(`[{"pattern":"/admin","action":"block"}]`, body)
}

func (suite *ServiceTestSuite) TestMetricsRequest() {
	// GIVEN
	suite.send(http.MethodGet, EndpointRules, nil)

	// WHEN
	resp, body := suite.send(http.MethodGet, EndpointMetrics, nil)

	// THEN
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.True(strings.Contains(body, "kaiyote_http_requests_total"))
	suite.True(strings.Contains(body, `service="management"`))
}

func (suite *ServiceTestSuite) TestUnknownEndpoint() {
	// WHEN
	resp, _ := suite.send(http.MethodGet, "/foo", nil)

	// THEN
	suite.Equal(http.StatusNotFound, resp.StatusCode)
}
