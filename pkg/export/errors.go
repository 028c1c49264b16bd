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

package export

import (
	"github.com/walteh/zopexport/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrConfiguration marks a missing or incomplete config block
	ErrConfiguration = errors.Base("configuration error")
	// ErrMetadata marks an identifier or volume title that cannot be resolved
	ErrMetadata = errors.Base("metadata error")
	// ErrConnection marks a backend that could not be opened
	ErrConnection = errors.Base("connection error")

	// engine errors, shared with pkg/operation
	ErrPrecondition = operation.ErrPrecondition
	ErrIntegrity    = operation.ErrIntegrity
	ErrTransfer     = operation.ErrTransfer
)

var kinds = []error{
	ErrConfiguration,
	ErrMetadata,
	ErrConnection,
	ErrPrecondition,
	ErrIntegrity,
	ErrTransfer,
}

// Kind returns the sentinel err belongs to, or nil when it is unclassified
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

func configurationError(cause error, format string, args ...interface{}) error {
	return operation.NewKindError(ErrConfiguration, cause, format, args...)
}

func metadataError(cause error, format string, args ...interface{}) error {
	return operation.NewKindError(ErrMetadata, cause, format, args...)
}

func connectionError(cause error, format string, args ...interface{}) error {
	return operation.NewKindError(ErrConnection, cause, format, args...)
}
