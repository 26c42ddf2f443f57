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

package config

import (
	"net"
	"strconv"
	"time"

	"github.com/inhies/go-bytesize"
)

type ServeConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"           validate:"gte=0,lte=65535"`
	Timeout     Timeout       `koanf:"timeout"`
	BufferLimit BufferLimit   `koanf:"buffer_limit"`
	CORS        *CORS         `koanf:"cors,omitempty"`
	Respond     RespondConfig `koanf:"respond"`
}

func (c ServeConfig) Address() string { return net.JoinHostPort(c.Host, strconv.Itoa(c.Port)) }

type ManagementConfig struct {
	Host        string      `koanf:"host"`
	Port        int         `koanf:"port"           validate:"gte=0,lte=65535"`
	Timeout     Timeout     `koanf:"timeout"`
	BufferLimit BufferLimit `koanf:"buffer_limit"`
	CORS        *CORS       `koanf:"cors,omitempty"`
}

func (c ManagementConfig) Address() string { return net.JoinHostPort(c.Host, strconv.Itoa(c.Port)) }

type Timeout struct {
	Read  time.Duration `koanf:"read,string"`
	Write time.Duration `koanf:"write,string"`
	Idle  time.Duration `koanf:"idle,string"`
}

// BufferLimit restricts the size of inbound requests. Read limits the request
// header, Body the buffered request body. A zero Body limit means unlimited.
type BufferLimit struct {
	Read bytesize.ByteSize `koanf:"read"`
	Body bytesize.ByteSize `koanf:"body"`
}

type CORS struct {
	AllowedOrigins   []string      `koanf:"allowed_origins"`
	AllowedMethods   []string      `koanf:"allowed_methods"`
	AllowedHeaders   []string      `koanf:"allowed_headers"`
	ExposedHeaders   []string      `koanf:"exposed_headers"`
	AllowCredentials bool          `koanf:"allow_credentials"`
	MaxAge           time.Duration `koanf:"max_age,string"`
}

type ResponseOverride struct {
	Code int `koanf:"code" validate:"omitempty,gte=400,lte=599"`
}

type RespondConfig struct {
	Verbose bool `koanf:"verbose"`
	With    struct {
		BlockedError       ResponseOverride `koanf:"blocked_error"`
		ArgumentError      ResponseOverride `koanf:"argument_error"`
		CommunicationError ResponseOverride `koanf:"communication_error"`
		InternalError      ResponseOverride `koanf:"internal_error"`
		NoRouteError       ResponseOverride `koanf:"no_route_error"`
		MethodError        ResponseOverride `koanf:"method_error"`
		PayloadError       ResponseOverride `koanf:"payload_error"`
	} `koanf:"with"`
}
