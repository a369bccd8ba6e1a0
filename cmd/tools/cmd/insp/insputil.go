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

package insp

import (
	"fmt"
	"io"
	"os"

	uuid "github.com/satori/go.uuid"

	"livelink/pkg/cmd"
	"livelink/pkg/proto"
	"livelink/pkg/util"
)

type cmdInspUUIDT struct {
	cmd.Command
	optNew bool
	id     proto.UUID
}

func (c *cmdInspUUIDT) Init(name string, desc string) {
	c.Command.Init(name, desc)
	c.BoolOption(&c.optNew, "new", false, "generate a new random UUID")
	c.SetSynopsis("[-new] [<xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx>]")
}

func (c *cmdInspUUIDT) Parse(args []string) (err error) {
	if err = c.Command.Parse(args); err != nil {
		return
	}
	if c.optNew {
		c.id = proto.NewUUID()
		return
	}
	if c.NArg() < 1 {
		err = fmt.Errorf("missing UUID string")
		return
	}
	c.id, err = proto.ParseUUID(c.Arg(0))
	return
}

func (c *cmdInspUUIDT) Exec() {
	c.Validate()
	printUUID(os.Stdout, c.id)
}

func printUUID(w io.Writer, id proto.UUID) {
	var variant string
	switch id.Variant() {
	case uuid.VariantNCS:
		variant = "NCS"
	case uuid.VariantRFC4122:
		variant = "RFC4122"
	case uuid.VariantMicrosoft:
		variant = "Microsoft"
	default:
		variant = "Future"
	}
	fmt.Fprintf(w, "UUID     : %s\n", id.String())
	fmt.Fprintf(w, "Version  : %d\n", id.Version())
	fmt.Fprintf(w, "Variant  : %s\n", variant)
	fmt.Fprintf(w, "Wire     : %s\n", util.ToHexString(id.Bytes()))
}

func init() {
	c := &cmdInspUUIDT{}
	c.Init("uuid", "check or generate an entity/client UUID")

	cmd.Register(c)
}
