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

package cli

type IRetryable interface {
	Retryable() bool
}

type Error struct {
	What string
}

func (e *Error) Retryable() bool { return false }

type RetryableError struct {
	What string
}

func (e *RetryableError) Retryable() bool { return true }

func (e *Error) Error() string {
	return "error: " + e.What
}

func (e *RetryableError) Error() string {
	return "error: " + e.What
}

func NewError(err error) *Error {
	return &Error{
		What: err.Error(),
	}
}

func NewErrorWithString(err string) *Error {
	return &Error{err}
}

// IOError is a transport failure. The request may be sent again on a new
// connection.
type IOError struct {
	Err error
}

func (e *IOError) Retryable() bool { return true }

func (e *IOError) Error() string {
	return "IOError: " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err, or an error it wraps, is retryable.
func IsRetryable(err error) bool {
	for err != nil {
		if r, ok := err.(IRetryable); ok {
			return r.Retryable()
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
