// Copyright 2023 Dimitrij Drus <dadrus@gmx.de>
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

package errorhandler

import (
	"net/http"
)

type writerFunc func(rw http.ResponseWriter, req *http.Request, err error)

type opts struct {
	verboseErrors        bool
	onBlockedError       writerFunc
	onArgumentError      writerFunc
	onCommunicationError writerFunc
	onNoRouteError       writerFunc
	onMethodError        writerFunc
	onPayloadError       writerFunc
	onInternalError      writerFunc
}

type Option func(*opts)

func WithBlockedErrorCode(code int) Option {
	return func(o *opts) {
		if code != 0 {
			o.onBlockedError = errorWriter(o, code)
		}
	}
}

func WithArgumentErrorCode(code int) Option {
	return func(o *opts) {
		if code != 0 {
			o.onArgumentError = errorWriter(o, code)
		}
	}
}

func WithCommunicationErrorCode(code int) Option {
	return func(o *opts) {
		if code != 0 {
			o.onCommunicationError = errorWriter(o, code)
		}
	}
}

func WithNoRouteErrorCode(code int) Option {
	return func(o *opts) {
		if code != 0 {
			o.onNoRouteError = errorWriter(o, code)
		}
	}
}

func WithMethodErrorCode(code int) Option {
	return func(o *opts) {
		if code != 0 {
			o.onMethodError = errorWriter(o, code)
		}
	}
}

func WithPayloadErrorCode(code int) Option {
	return func(o *opts) {
		if code != 0 {
			o.onPayloadError = errorWriter(o, code)
		}
	}
}

func WithInternalServerErrorCode(code int) Option {
	return func(o *opts) {
		if code != 0 {
			o.onInternalError = errorWriter(o, code)
		}
	}
}

func WithVerboseErrors(flag bool) Option {
	return func(o *opts) {
		o.verboseErrors = flag
	}
}
