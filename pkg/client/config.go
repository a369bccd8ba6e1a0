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
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"

	"livelink/pkg/util"
)

type Duration = util.Duration

type Config struct {
	// Server is the gateway URL, e.g. ws://127.0.0.1:7000/session, or
	// tcp://127.0.0.1:7001 for the raw stream transport.
	Server            string
	Appname           string
	SessionToken      string
	CompressThreshold int
	ConnectTimeout    Duration
	WriteTimeout      Duration
	RequestTimeout    Duration
}

var defaultConfig = Config{
	CompressThreshold: 4096,
	ConnectTimeout:    Duration{Duration: 2 * time.Second},
	WriteTimeout:      Duration{Duration: 500 * time.Millisecond},
	RequestTimeout:    Duration{Duration: 1000 * time.Millisecond},
}

func SetDefaultTimeout(connect, write, request time.Duration) {
	defaultConfig.ConnectTimeout.Duration = connect
	defaultConfig.WriteTimeout.Duration = write
	defaultConfig.RequestTimeout.Duration = request
}

func (c *Config) SetDefault() {
	*c = defaultConfig
}

// LoadConfig reads TOML files on top of the defaults. Keys in later files
// override earlier ones. A leading ~ in a file name is the home directory.
func LoadConfig(files ...string) (conf Config, err error) {
	conf.SetDefault()
	for _, file := range files {
		if file, err = homedir.Expand(file); err != nil {
			return
		}
		if _, err = toml.DecodeFile(file, &conf); err != nil {
			err = fmt.Errorf("%s: %w", file, err)
			return
		}
	}
	err = conf.validate()
	return
}

// WriteToToml writes c in the format LoadConfig reads.
func (c *Config) WriteToToml(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func (c *Config) validate() error {
	if len(c.Server) == 0 {
		return fmt.Errorf("Config.Server not specified.")
	}
	u, err := url.Parse(c.Server)
	if err != nil {
		return fmt.Errorf("Config.Server: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" && u.Scheme != "tcp" {
		return fmt.Errorf("Config.Server: unsupported scheme %q", u.Scheme)
	}
	if len(c.Appname) == 0 {
		return fmt.Errorf("Config.Appname not specified.")
	}
	if c.CompressThreshold < 0 {
		return fmt.Errorf("Config.CompressThreshold must not be negative")
	}
	if c.RequestTimeout.Duration < 0 || c.ConnectTimeout.Duration < 0 || c.WriteTimeout.Duration < 0 {
		return fmt.Errorf("Config: negative timeout")
	}
	return nil
}
