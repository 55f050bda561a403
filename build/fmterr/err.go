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
	"fmt"

	"github.com/pkg/errors"
)

type (
	internalError struct {
		err error
	}

	hostError struct {
		source string
		err    error
	}
)

// Internal marks an error as internal, that is a broken contract between passes.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	return internalError{err: err}
}

// Internalf returns a formatted internal error.
func Internalf(format string, a ...any) error {
	return Internal(errors.Errorf(format, a...))
}

// IsInternal returns true if the error, or one of the error it wraps, is an internal error.
func IsInternal(err error) bool {
	var target internalError
	return errors.As(err, &target)
}

func (err internalError) Error() string {
	return "internal error. This is a bug in the Horn lowering passes. Error:\n" + err.err.Error()
}

func (err internalError) Unwrap() error {
	return err.err
}

func (err internalError) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

// Host marks an error raised by a host implementation, identified by source.
func Host(source string, err error) error {
	if err == nil {
		return nil
	}
	return hostError{source: source, err: errors.WithStack(err)}
}

// IsHost returns true if the error, or one of the error it wraps, has been raised by a host.
func IsHost(err error) bool {
	var target hostError
	return errors.As(err, &target)
}

func (err hostError) Error() string {
	return fmt.Sprintf("host function %s failed: %s", err.source, err.err.Error())
}

func (err hostError) Unwrap() error {
	return err.err
}

func (err hostError) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}
