// Copyright 2026 Google LLC. All Rights Reserved.
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

package errors

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToGRPC wraps err as a gRPC status error if err carries a Code, else err is
// returned unmodified.
func ToGRPC(err error) error {
	var ce CodedError
	if !errors.As(err, &ce) {
		// Nothing to do: if it's a gRPC error it's already correct, if not gRPC will assume
		// codes.Unknown.
		return err
	}
	return status.Error(codes.Code(ce.Code()), err.Error())
}
