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
	"time"
)

type optionData struct {
	timeout time.Duration
}

// IOption modifies a single call.
type IOption func(data interface{})

// WithTimeout overrides Config.RequestTimeout for one request. It has no
// effect on one-way messages.
func WithTimeout(timeout time.Duration) IOption {
	return func(i interface{}) {
		if data, ok := i.(*optionData); ok {
			data.timeout = timeout
		}
	}
}

func newOptionData(opts ...IOption) *optionData {
	data := &optionData{}
	for _, op := range opts {
		op(data)
	}
	return data
}
