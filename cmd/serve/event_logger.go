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
	"strings"

	"github.com/rs/zerolog"
	"go.uber.org/fx/fxevent"
)

// eventLogger routes the fx lifecycle events to zerolog. Successful steps are logged
// on trace level, failures on error level.
type eventLogger struct {
	l zerolog.Logger
}

func (e *eventLogger) LogEvent(event fxevent.Event) { //nolint:cyclop,funlen
	switch evt := event.(type) {
	case *fxevent.OnStartExecuting:
		e.l.Trace().
			Str("_function", evt.FunctionName).
			Str("_caller", evt.CallerName).
			Msg("OnStart hook executing")
	case *fxevent.OnStartExecuted:
		if evt.Err != nil {
			e.l.Error().Err(evt.Err).
				Str("_function", evt.FunctionName).
				Str("_caller", evt.CallerName).
				Msg("OnStart hook failed")
		} else {
			e.l.Trace().
				Str("_function", evt.FunctionName).
				Str("_caller", evt.CallerName).
				Str("_runtime", evt.Runtime.String()).
				Msg("OnStart hook executed")
		}
	case *fxevent.OnStopExecuting:
		e.l.Trace().
			Str("_function", evt.FunctionName).
			Str("_caller", evt.CallerName).
			Msg("OnStop hook executing")
	case *fxevent.OnStopExecuted:
		if evt.Err != nil {
			e.l.Error().Err(evt.Err).
				Str("_function", evt.FunctionName).
				Str("_caller", evt.CallerName).
				Msg("OnStop hook failed")
		} else {
			e.l.Trace().
				Str("_function", evt.FunctionName).
				Str("_caller", evt.CallerName).
				Str("_runtime", evt.Runtime.String()).
				Msg("OnStop hook executed")
		}
	case *fxevent.Supplied:
		e.logModuleEvent(evt.Err, evt.ModuleName, "Supplied", evt.TypeName)
	case *fxevent.Provided:
		e.logModuleEvent(evt.Err, evt.ModuleName, "Provided", evt.OutputTypeNames...)
	case *fxevent.Replaced:
		e.logModuleEvent(evt.Err, evt.ModuleName, "Replaced", evt.OutputTypeNames...)
	case *fxevent.Decorated:
		e.logModuleEvent(evt.Err, evt.ModuleName, "Decorated", evt.OutputTypeNames...)
	case *fxevent.Invoking:
		e.l.Trace().
			Str("_function", evt.FunctionName).
			Str("_module", evt.ModuleName).
			Msg("Invoking")
	case *fxevent.Invoked:
		if evt.Err != nil {
			e.l.Error().Err(evt.Err).
				Str("_function", evt.FunctionName).
				Str("_module", evt.ModuleName).
				Str("_stack", evt.Trace).
				Msg("Invoke failed")
		}
	case *fxevent.Stopping:
		e.l.Info().Str("_signal", strings.ToUpper(evt.Signal.String())).Msg("Received signal")
	case *fxevent.Stopped:
		if evt.Err != nil {
			e.l.Error().Err(evt.Err).Msg("Stop failed")
		}
	case *fxevent.RollingBack:
		e.l.Error().Err(evt.StartErr).Msg("Start failed, rolling back")
	case *fxevent.RolledBack:
		if evt.Err != nil {
			e.l.Error().Err(evt.Err).Msg("Rollback failed")
		}
	case *fxevent.Started:
		if evt.Err != nil {
			e.l.Error().Err(evt.Err).Msg("Start failed")
		} else {
			e.l.Trace().Msg("Started")
		}
	case *fxevent.LoggerInitialized:
		if evt.Err != nil {
			e.l.Error().Err(evt.Err).Msg("Custom logger initialization failed")
		}
	}
}

func (e *eventLogger) logModuleEvent(err error, module, action string, types ...string) {
	if err != nil {
		e.l.Error().Err(err).Str("_module", module).Strs("_types", types).Msg(action + " failed")

		return
	}

	e.l.Trace().Str("_module", module).Strs("_types", types).Msg(action)
}
