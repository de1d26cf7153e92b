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

// Package errors defines an error representation that associates an error
// message with an error code.
//
// Codes share their numeric values with gRPC codes, so errors produced by the
// tree and codec packages can be translated to gRPC statuses or HTTP
// responses without losing the reason for the failure. The package itself
// stays independent of any transport.
//
// Errors created by this package are meant to be user-visible. Codes are
// chosen from the perspective of the caller: a tree whose stored root does not
// match its leaves is DataLoss, a document that cannot be parsed is
// InvalidArgument, and an operation on a tree that has not been rooted yet is
// FailedPrecondition.
package errors
