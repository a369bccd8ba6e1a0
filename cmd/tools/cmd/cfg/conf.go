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
	"bufio"
	"fmt"
	"io"
	"os"

	"livelink/pkg/client"
	"livelink/pkg/cmd"
)

type cmdConfUnify struct {
	cmd.Command
	optOutFileName string
}

func (c *cmdConfUnify) Init(name string, desc string) {
	c.Command.Init(name, desc)
	c.StringOption(&c.optOutFileName, "o|output-filename", "", "output filename, stdout if not given")
	c.SetSynopsis("[options] <toml file name> [<toml file name>]")
	c.AddDetails("\tLoads the given client config files on top of the defaults, later files\n\toverriding earlier ones, validates the result and writes it back as TOML.\n")
}

func (c *cmdConfUnify) Exec() {
	c.Validate()
	if c.NArg() < 1 {
		fmt.Println("no input file")
		return
	}
	var w io.Writer = os.Stdout
	if c.optOutFileName != "" {
		file, err := os.Create(c.optOutFileName)
		if err != nil {
			fmt.Printf("fail to create file %s\n", c.optOutFileName)
			return
		}
		defer file.Close()
		w = file
	}
	if err := unify(w, c.Args()...); err != nil {
		fmt.Println(err)
	}
}

func unify(w io.Writer, files ...string) error {
	conf, err := client.LoadConfig(files...)
	if err != nil {
		return err
	}
	writer := bufio.NewWriter(w)
	if err = conf.WriteToToml(writer); err != nil {
		return err
	}
	return writer.Flush()
}

func init() {
	c := &cmdConfUnify{}
	c.Init("config", "unify and check the given client configuration file(s)")

	cmd.Register(c)
}
