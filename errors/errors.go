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
	"fmt"
	"net/http"
)

// Code defines the error code of an error. Values match gRPC codes.
type Code uint32

const (
	// OK is returned on success.
	OK Code = 0

	// Canceled indicates the operation was canceled (typically by the caller).
	Canceled Code = 1

	// Unknown error.
	Unknown Code = 2

	// InvalidArgument indicates the client specified an invalid argument, such
	// as a document that is not valid JSON or lacks its version markers.
	InvalidArgument Code = 3

	// DeadlineExceeded means operation expired before completion.
	DeadlineExceeded Code = 4

	// NotFound means some requested entity was not found.
	NotFound Code = 5

	// AlreadyExists means an attempt to create an entity failed because one
	// already exists.
	AlreadyExists Code = 6

	// PermissionDenied indicates the caller does not have permission to
	// execute the specified operation.
	PermissionDenied Code = 7

	// ResourceExhausted indicates some resource has been exhausted.
	ResourceExhausted Code = 8

	// FailedPrecondition indicates operation was rejected because the
	// system is not in a state required for the operation's execution,
	// e.g. disclosing from a tree that has no root.
	FailedPrecondition Code = 9

	// Aborted indicates the operation was aborted.
	Aborted Code = 10

	// OutOfRange means operation was attempted past the valid range.
	OutOfRange Code = 11

	// Unimplemented indicates operation is not implemented or not
	// supported, e.g. an unregistered hash algorithm.
	Unimplemented Code = 12

	// Internal errors.
	Internal Code = 13

	// Unavailable indicates the service is currently unavailable.
	Unavailable Code = 14

	// DataLoss indicates unrecoverable data loss or corruption. Tampered
	// leaves and stale roots are reported with this code.
	DataLoss Code = 15

	// Unauthenticated indicates the request does not have valid
	// authentication credentials for the operation.
	Unauthenticated Code = 16
)

var codeNames = map[Code]string{
	OK:                 "OK",
	Canceled:           "Canceled",
	Unknown:            "Unknown",
	InvalidArgument:    "InvalidArgument",
	DeadlineExceeded:   "DeadlineExceeded",
	NotFound:           "NotFound",
	AlreadyExists:      "AlreadyExists",
	PermissionDenied:   "PermissionDenied",
	ResourceExhausted:  "ResourceExhausted",
	FailedPrecondition: "FailedPrecondition",
	Aborted:            "Aborted",
	OutOfRange:         "OutOfRange",
	Unimplemented:      "Unimplemented",
	Internal:           "Internal",
	Unavailable:        "Unavailable",
	DataLoss:           "DataLoss",
	Unauthenticated:    "Unauthenticated",
}

// String returns the name of the code.
func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Code(%d)", uint32(c))
}

// CodedError is an error that carries a Code.
type CodedError interface {
	error
	Code() Code
}

type codedError struct {
	code Code
	msg  string
}

func (e *codedError) Error() string { return e.msg }

func (e *codedError) Code() Code { return e.code }

// Errorf creates a CodedError from the specified code and message format.
// A %w verb in format is honoured, so the result unwraps to the wrapped error.
func Errorf(code Code, format string, a ...interface{}) error {
	err := fmt.Errorf(format, a...)
	if errors.Unwrap(err) == nil {
		return &codedError{code: code, msg: err.Error()}
	}
	return &wrappedError{codedError: codedError{code: code, msg: err.Error()}, cause: errors.Unwrap(err)}
}

// New creates a CodedError from the specified code and message.
func New(code Code, msg string) error {
	return &codedError{code: code, msg: msg}
}

type wrappedError struct {
	codedError
	cause error
}

func (e *wrappedError) Unwrap() error { return e.cause }

// CodeOf returns the code of the first CodedError in err's chain. OK is
// returned for a nil error and Unknown for errors that carry no code.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var ce CodedError
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return Unknown
}

// HTTPStatus maps c to the closest HTTP status code.
func HTTPStatus(c Code) int {
	switch c {
	case OK:
		return http.StatusOK
	case Canceled:
		return 499
	case InvalidArgument, OutOfRange:
		return http.StatusBadRequest
	case DeadlineExceeded:
		return http.StatusGatewayTimeout
	case NotFound:
		return http.StatusNotFound
	case AlreadyExists, Aborted:
		return http.StatusConflict
	case PermissionDenied:
		return http.StatusForbidden
	case Unauthenticated:
		return http.StatusUnauthorized
	case ResourceExhausted:
		return http.StatusTooManyRequests
	case FailedPrecondition:
		return http.StatusPreconditionFailed
	case Unimplemented:
		return http.StatusNotImplemented
	case Unavailable:
		return http.StatusServiceUnavailable
	case DataLoss:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
