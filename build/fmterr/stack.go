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
	"io"

	"github.com/pkg/errors"
)

type (
	stackTracer interface {
		StackTrace() errors.StackTrace
	}

	errorList interface {
		Errors() []error
	}

	// stackTraceError prints, in verbose mode, where every error
	// collected by an Appender was generated.
	stackTraceError struct {
		err error
	}
)

// ToStackTraceError returns an error that displays the stack traces
// of all its underlying errors with %+v.
func ToStackTraceError(err error) error {
	if err == nil {
		return nil
	}
	return &stackTraceError{err: err}
}

func causes(err error) []error {
	var list errorList
	if errors.As(err, &list) {
		return list.Errors()
	}
	return []error{err}
}

func writeVerbose(w io.Writer, err error) {
	io.WriteString(w, err.Error())
	all := causes(err)
	for i, cause := range all {
		var st stackTracer
		if !errors.As(cause, &st) {
			continue
		}
		if len(all) == 1 {
			fmt.Fprintf(w, "\nError generated at:%+v\n", st.StackTrace())
			continue
		}
		fmt.Fprintf(w, "\nError %d generated at:%+v\n", i+1, st.StackTrace())
	}
}

// format prints err with the stack traces of its causes for %+v.
func format(err error, s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			writeVerbose(s, err)
			return
		}
		io.WriteString(s, err.Error())
	case 's':
		io.WriteString(s, err.Error())
	case 'q':
		fmt.Fprintf(s, "%q", err.Error())
	}
}

func (e *stackTraceError) Format(s fmt.State, verb rune) {
	format(e, s, verb)
}

func (e *stackTraceError) Unwrap() error {
	return e.err
}

func (e *stackTraceError) Error() string {
	return e.err.Error()
}
