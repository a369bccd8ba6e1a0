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

package cfg

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnify(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	require.NoError(t, os.WriteFile(base, []byte("Server = \"ws://gw:7000\"\nAppname = \"viewer\"\n"), 0644))
	local := filepath.Join(dir, "local.toml")
	require.NoError(t, os.WriteFile(local, []byte("WriteTimeout = \"2s\"\n"), 0644))

	var out bytes.Buffer
	require.NoError(t, unify(&out, base, local))
	assert.Contains(t, out.String(), `Server = "ws://gw:7000"`)
	assert.Contains(t, out.String(), `WriteTimeout = "2s"`)

	// Appname missing
	require.Error(t, unify(&out, local))
}
