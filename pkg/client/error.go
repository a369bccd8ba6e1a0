//
//  Copyright 2023 PayPal Inc.
//
//  Licensed to the Apache Software Foundation (ASF) under one or more
//  contributor license agreements.  See the NOTICE file distributed with
//  this work for additional information regarding copyright ownership.
//  The ASF licenses this file to You under the Apache License, Version 2.0
//  (the "License"); you may not use this file except in compliance with
//  the License.  You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

package client

import (
	"context"
	stderrors "errors"

	"livelink/internal/cli"
	"livelink/pkg/errors"
	"livelink/pkg/proto"
)

var (
	ErrBadParam error // Error when a message cannot be encoded from the given arguments.
	ErrInternal error // Error when an unexpected problem occurs.
	ErrDesync   error // Error when responses no longer match requests.

	ErrBadMsg     error // Error when a response cannot be decoded.
	ErrTimeout    error // Error when no response arrived in time.
	ErrConnection error // Error when the connection is closed or broken.
)

func init() {
	ErrBadParam = &cli.Error{What: "bad parameter"}
	ErrInternal = &cli.Error{What: "internal error"}
	ErrDesync = &cli.Error{What: "connection out of sync"}

	ErrBadMsg = &cli.RetryableError{What: "bad message"}
	ErrTimeout = &cli.RetryableError{What: "request timeout"}
	ErrConnection = &cli.RetryableError{What: "connection closed"}
}

// encodeErrors are the codec errors a caller can cause with its arguments.
var encodeErrors = []error{
	proto.ErrTooManyElements,
	proto.ErrBufferTooSmall,
	proto.ErrInvalidOffset,
	proto.ErrInvalidMessage,
}

// decodeErrors are the codec errors a malformed response causes.
var decodeErrors = []error{
	proto.ErrBufferTooShort,
	proto.ErrInvalidMessageSize,
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case stderrors.Is(err, context.Canceled):
		return err
	case stderrors.Is(err, errors.ErrRequestTimeout), stderrors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case stderrors.Is(err, errors.ErrConnectionDesync):
		return ErrDesync
	case stderrors.Is(err, errors.ErrConnectionClosed), stderrors.Is(err, errors.ErrNotConnected):
		return ErrConnection
	}
	var ioErr *cli.IOError
	if stderrors.As(err, &ioErr) {
		return ErrConnection
	}
	for _, e := range encodeErrors {
		if stderrors.Is(err, e) {
			return ErrBadParam
		}
	}
	for _, e := range decodeErrors {
		if stderrors.Is(err, e) {
			return ErrBadMsg
		}
	}
	return ErrInternal
}
