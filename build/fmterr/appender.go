// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fmterr

import (
	"go.uber.org/multierr"
)

type (
	contextError struct {
		f    func(error) error
		errs error
	}

	// Appender accumulates the errors of independent units of work,
	// for example the rules of a program, so that a failing pass reports
	// every broken unit at once.
	Appender struct {
		stack []contextError
		errs  error
	}
)

// Push a new context in the error stack.
// Errors appended until the matching Pop are transformed by f.
func (app *Appender) Push(f func(error) error) {
	app.stack = append(app.stack, contextError{f: f})
}

// Pop removes the last error context in the stack.
func (app *Appender) Pop() {
	last := app.stack[len(app.stack)-1]
	app.stack = app.stack[:len(app.stack)-1]
	if last.errs == nil {
		return
	}
	for _, err := range multierr.Errors(last.errs) {
		app.Append(last.f(err))
	}
}

// Append an error. Returns false when err is not nil to let callers write
//
//	return app.Append(err)
//
// in functions reporting success with a boolean.
func (app *Appender) Append(err error) bool {
	if err == nil {
		return true
	}
	if len(app.stack) == 0 {
		app.errs = multierr.Append(app.errs, err)
	} else {
		top := &app.stack[len(app.stack)-1]
		top.errs = multierr.Append(top.errs, err)
	}
	return false
}

// Appendf appends an internal error.
func (app *Appender) Appendf(format string, a ...any) bool {
	return app.Append(Internalf(format, a...))
}

// Empty returns true if no errors has been appended.
func (app *Appender) Empty() bool {
	if app.errs != nil {
		return false
	}
	for _, ctx := range app.stack {
		if ctx.errs != nil {
			return false
		}
	}
	return true
}

// Errors returns all the errors appended so far.
func (app *Appender) Errors() []error {
	return multierr.Errors(app.ToError())
}

// ToError returns the accumulated errors as a single error
// or nil if no error has been appended.
func (app *Appender) ToError() error {
	if len(app.stack) > 0 {
		return Internalf("cannot fetch errors while the context stack is non-empty")
	}
	return app.errs
}
