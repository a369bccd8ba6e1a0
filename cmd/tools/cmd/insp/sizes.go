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
	"text/tabwriter"

	"livelink/pkg/cmd"
	"livelink/pkg/proto"
)

type cmdSizesT struct {
	cmd.Command
}

func (c *cmdSizesT) Exec() {
	c.Validate()
	writeSizes(os.Stdout)
}

func writeSizes(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHANNEL\tMESSAGE\tDIRECTION\tSHAPE\tSIZE")
	for _, info := range proto.Messages() {
		dir := "request"
		if info.Response {
			dir = "response"
		}
		size := fmt.Sprintf("%d", info.FixedSize)
		if info.FixedSize < 0 {
			size = fmt.Sprintf(">= %d", info.MinSize)
		}
		fmt.Fprintf(tw, "%d %s\t%s\t%s\t%s\t%s\n", info.Channel, info.Channel, info.Name, dir, info.Shape, size)
	}
	tw.Flush()
}

func init() {
	c := &cmdSizesT{}
	c.Init("sizes", "list message types with their wire sizes")

	cmd.Register(c)
}
