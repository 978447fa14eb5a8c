// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package events

import "time"

// EventHandler is the interface of the call back function for receiveing events.
type EventHandler func(Event)

// Event is used to type restrict the Events
type Event interface {
	isEvent()
}

// Trace is useful to see some details of what's going on
type Trace struct {
	ID      string
	Message string
	event
}

// TemplateRegistered indicates a template definition was stored (or
// replaced) under Name.
type TemplateRegistered struct {
	Name   string
	Kind   string
	Layout string
	event
}

// RenderStart indicates a render of the named template began.
type RenderStart struct {
	Name string
	event
}

// ContextGathered reports how many contributions were merged into the
// context before rendering Name.
type ContextGathered struct {
	Name          string
	Contributions int
	event
}

// LayoutApplied indicates the output of Name is being wrapped in Layout.
type LayoutApplied struct {
	Name   string
	Layout string
	event
}

// RenderComplete indicates the named template rendered successfully.
type RenderComplete struct {
	Name     string
	Duration time.Duration
	event
}

// RenderFailed indicates the render of Name returned an error.
type RenderFailed struct {
	Name  string
	Error error
	event
}

// PartialFailed indicates a nested render failed. Its placeholder is replaced
// with an empty string and the enclosing render carries on.
type PartialFailed struct {
	ID    string
	Name  string
	Error error
	event
}

// Event interface type fulfillment
type event struct{}

func (event) isEvent() {}
