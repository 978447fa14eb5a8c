// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package events

import (
	hclog "github.com/hashicorp/go-hclog"
)

// NewLogHandler returns an EventHandler writing events to logger. Failures
// are logged at error level, template lifecycle at debug and Trace at trace.
func NewLogHandler(logger hclog.Logger) EventHandler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return func(e Event) {
		switch v := e.(type) {
		case Trace:
			logger.Trace(v.Message, "id", v.ID)
		case TemplateRegistered:
			logger.Debug("template registered", "name", v.Name, "kind", v.Kind, "layout", v.Layout)
		case RenderStart:
			logger.Trace("render start", "name", v.Name)
		case ContextGathered:
			logger.Trace("context gathered", "name", v.Name, "contributions", v.Contributions)
		case LayoutApplied:
			logger.Debug("applying layout", "name", v.Name, "layout", v.Layout)
		case RenderComplete:
			logger.Debug("render complete", "name", v.Name, "duration", v.Duration)
		case RenderFailed:
			logger.Error("render failed", "name", v.Name, "error", v.Error)
		case PartialFailed:
			logger.Error("error rendering inline partial", "id", v.ID, "name", v.Name, "error", v.Error)
		}
	}
}

// Multi fans an event out to several handlers. Nil handlers are skipped.
func Multi(handlers ...EventHandler) EventHandler {
	return func(e Event) {
		for _, h := range handlers {
			if h != nil {
				h(e)
			}
		}
	}
}
