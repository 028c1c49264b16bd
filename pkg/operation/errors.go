// Copyright 2025 walteh LLC
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

package operation

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrPrecondition marks an empty source or a non-empty destination.
	// Nothing has been written.
	ErrPrecondition = errors.Base("precondition failed")
	// ErrIntegrity marks a digest mismatch that survived the retry. The
	// destination has been rolled back.
	ErrIntegrity = errors.Base("integrity check failed")
	// ErrTransfer marks any other I/O failure. Files already written stay.
	ErrTransfer = errors.Base("transfer failed")
)

// 🏷️ KindError carries an error kind next to its cause, so errors.Is
// matches both
type KindError struct {
	Kind  error
	Msg   string
	Cause error
}

// NewKindError builds a KindError with a formatted message. cause may be nil.
func NewKindError(kind, cause error, format string, args ...interface{}) *KindError {
	return &KindError{
		Kind:  kind,
		Msg:   fmt.Sprintf(format, args...),
		Cause: cause,
	}
}

func (e *KindError) Error() string {
	if e.Cause == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Cause.Error()
}

func (e *KindError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func preconditionError(format string, args ...interface{}) error {
	return NewKindError(ErrPrecondition, nil, format, args...)
}

func integrityError(format string, args ...interface{}) error {
	return NewKindError(ErrIntegrity, nil, format, args...)
}

func transferError(cause error, format string, args ...interface{}) error {
	return NewKindError(ErrTransfer, cause, format, args...)
}
