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

	"livelink/pkg/cmd"
	"livelink/pkg/proto"
	"livelink/pkg/util"
)

type cmdDecodeT struct {
	cmd.Command
	optMessage string
	msg        []byte
}

func (c *cmdDecodeT) Init(name string, desc string) {
	c.Command.Init(name, desc)
	c.StringOption(&c.optMessage, "m|message", "", "decode the input as a bare payload of the named message instead of a frame")
	c.SetSynopsis("[-m <message>] <hex-string>")
	c.AddDetails("\tHex digits may be separated by blanks, and may carry a 0x prefix.\n")
	c.AddExample(name+" 4c4c01050000080000002a00000000000000", "decode a camera transform query frame")
	c.AddExample(name+" -m Resize 80073804", "decode a resize payload")
}

func (c *cmdDecodeT) Parse(args []string) (err error) {
	if err = c.Command.Parse(args); err != nil {
		return
	}
	if c.NArg() < 1 {
		err = fmt.Errorf("missing hex msg")
		return
	}
	c.msg, err = util.ParseHexString(c.Arg(0))
	return
}

func (c *cmdDecodeT) Exec() {
	c.Validate()
	var err error
	if c.optMessage != "" {
		err = decodePayload(os.Stdout, c.optMessage, c.msg)
	} else {
		err = decodeFrame(os.Stdout, c.msg)
	}
	if err != nil {
		fmt.Println(err)
	}
}

func decodeFrame(w io.Writer, b []byte) error {
	util.HexDump(w, b)
	f, err := proto.DecodeFrame(b)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nframe: %s response=%v\n", f.FrameHeader.String(), f.Flags.IsResponse())
	info, ok := proto.LookupByChannel(f.Channel, f.Flags.IsResponse())
	if !ok {
		return proto.ErrNotSupportedMessage
	}
	return printMessage(w, info, f.Payload)
}

func decodePayload(w io.Writer, name string, b []byte) error {
	info, ok := proto.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown message %q", name)
	}
	util.HexDump(w, b)
	return printMessage(w, info, b)
}

func printMessage(w io.Writer, info *proto.MessageInfo, payload []byte) error {
	v, err := info.Decode(payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %+v\n", info.Name, v)
	return nil
}

func init() {
	c := &cmdDecodeT{}
	c.Init("decode", "decode a livelink frame or message given in hex")

	cmd.Register(c)
}
