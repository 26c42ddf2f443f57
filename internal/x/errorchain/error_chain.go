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

package errorchain

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/iancoleman/strcase"
)

type link struct {
	err error
	msg string
}

func (l link) String() string {
	if len(l.msg) == 0 {
		return l.err.Error()
	}

	return fmt.Sprintf("%s: %s", l.err.Error(), l.msg)
}

type message struct { //nolint:musttag
	XMLName xml.Name `json:"-"`
	Code    string   `json:"code"              xml:"code"`
	Message string   `json:"message,omitempty" xml:"message,omitempty"`
}

// ErrorChain is an ordered list of errors. The first entry classifies the failure, while
// the following ones describe its causes.
type ErrorChain struct { // nolint: errname
	links []link
}

func New(err error) *ErrorChain {
	return &ErrorChain{links: []link{{err: err}}}
}

func NewWithMessage(err error, msg string) *ErrorChain {
	return &ErrorChain{links: []link{{err: err, msg: msg}}}
}

func NewWithMessagef(err error, format string, a ...any) *ErrorChain {
	return NewWithMessage(err, fmt.Sprintf(format, a...))
}

func (ec *ErrorChain) CausedBy(err error) *ErrorChain {
	if err != nil {
		ec.links = append(ec.links, link{err: err})
	}

	return ec
}

func (ec *ErrorChain) Error() string {
	parts := make([]string, len(ec.links))

	for idx, l := range ec.links {
		parts[idx] = l.String()
	}

	return strings.Join(parts, ": ")
}

func (ec *ErrorChain) Unwrap() error {
	if len(ec.links) < 2 { //nolint:mnd
		return nil
	}

	return &ErrorChain{links: ec.links[1:]}
}

func (ec *ErrorChain) Is(target error) bool {
	return len(ec.links) != 0 && errors.Is(ec.links[0].err, target)
}

func (ec *ErrorChain) As(target any) bool {
	return len(ec.links) != 0 && errors.As(ec.links[0].err, target)
}

func (ec *ErrorChain) Errors() []error {
	errs := make([]error, len(ec.links))

	for idx, l := range ec.links {
		errs[idx] = l.err
	}

	return errs
}

// Message returns the message attached to the classifying error.
func (ec *ErrorChain) Message() string {
	if len(ec.links) == 0 {
		return ""
	}

	return ec.links[0].msg
}

func (ec *ErrorChain) MarshalJSON() ([]byte, error) {
	return json.Marshal(ec.toMessage())
}

func (ec *ErrorChain) MarshalXML(encoder *xml.Encoder, _ xml.StartElement) error {
	msg := ec.toMessage()
	msg.XMLName = xml.Name{Local: "error"}

	return encoder.Encode(msg)
}

func (ec *ErrorChain) toMessage() message {
	if len(ec.links) == 0 {
		return message{}
	}

	return message{
		Code:    strcase.ToLowerCamel(ec.links[0].err.Error()),
		Message: ec.links[0].msg,
	}
}
