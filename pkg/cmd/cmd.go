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

// Package cmd is a small registry of sub-commands sharing one binary.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/golang/glog"

	"livelink/pkg/version"
)

var (
	commands           = make(map[string]ICommand)
	groups             = make(map[string]*Group)
	notGroupedCommands []ICommand
)

type (
	ICommand interface {
		GetName() string
		GetDesc() string //get short description
		GetSynopsis() string
		GetDetails() string
		GetOptionDesc() string
		GetExample() string
		AddExample(cmdExample string, desc string)
		AddDetails(txt string)
		Init(name string, desc string)
		Exec()
		Parse(args []string) error
		PrintUsage()
	}

	Command struct {
		Option
		name       string
		desc       string
		synopsis   string
		details    string
		examples   string
		optV       string
		optVModule string
	}

	Group struct {
		cmds []ICommand
		name string
	}
)

func (c *Command) Init(name string, desc string) {
	c.name = name
	c.desc = desc
	c.Option.Init(name, flag.ContinueOnError)
	c.StringOption(&c.optV, "v", "", "log level for V logs")
	c.StringOption(&c.optVModule, "vmodule", "", "comma-separated list of pattern=N settings for file-filtered logging")
	c.Option.Usage = c.PrintUsage
}

func (c *Command) SetSynopsis(str string) {
	c.synopsis = str
}

func (c *Command) GetName() string {
	return c.name
}

func (c *Command) GetDesc() string {
	return c.desc
}

func (c *Command) GetSynopsis() string {
	return c.synopsis
}

func (c *Command) GetDetails() string {
	return c.details
}

func (c *Command) GetExample() string {
	return c.examples
}

func (c *Command) AddExample(cmdExample string, desc string) {
	c.examples += "\t" + desc + "\n\t\t" + cmdExample + "\n\n"
}

func (c *Command) AddDetails(txt string) {
	c.details += txt
}

func (c *Command) Write(w io.Writer) {
	wo := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := usageTemplate.Execute(wo, c); err != nil {
		fmt.Fprintln(w, err)
	}
	wo.Flush()
}

func (c *Command) PrintUsage() {
	c.Write(os.Stdout)
}

func (c *Command) Validate() {
	if !c.Parsed() {
		glog.Exit("not parsed")
	}
}

// Parse parses the command's own flags and hands -v and -vmodule on to glog.
func (c *Command) Parse(arguments []string) (err error) {
	if err = c.Option.Parse(arguments); err != nil {
		return
	}
	if c.optV != "" {
		if err = flag.Set("v", c.optV); err != nil {
			return
		}
	}
	if c.optVModule != "" {
		err = flag.Set("vmodule", c.optVModule)
	}
	return
}

func RegisterNewGroup(name string, cmds ...ICommand) (grp *Group) {
	if _, grpFound := groups[name]; grpFound {
		glog.Warningf("group %s has been registered.", name)
		return
	}
	grp = &Group{name: name}
	for _, c := range cmds {
		if register(c) {
			grp.cmds = append(grp.cmds, c)
		}
	}
	groups[name] = grp
	return
}

func Register(c ICommand) bool {
	if register(c) {
		notGroupedCommands = append(notGroupedCommands, c)
		return true
	}
	return false
}

func register(c ICommand) bool {
	if _, found := commands[c.GetName()]; found {
		glog.Warningf("command %s has been registered.", c.GetName())
		return false
	}
	commands[c.GetName()] = c
	return true
}

func GetCommand(name string) ICommand {
	if cmd, ok := commands[name]; ok {
		return cmd
	}
	return nil
}

// ParseCommandLine finds the first registered command name in args. Every
// other argument, before or after it, is returned for the command to parse.
func ParseCommandLine(args []string) (cmd ICommand, rest []string) {
	for i, arg := range args {
		if cmd = GetCommand(arg); cmd != nil {
			rest = append(rest, args[i+1:]...)
			return
		}
		rest = append(rest, arg)
	}
	return
}

func Write(w io.Writer) {
	progName := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "\nUSAGE\n  %s [-version] [[options] <command> [<args>]] \n\n", progName)
	WriteCommand(w)
}

func WriteCommand(w io.Writer) {
	if len(groups)+len(notGroupedCommands) == 0 {
		return
	}
	fmt.Fprintln(w, "\nCOMMAND")

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", name)
		for _, c := range groups[name].cmds {
			fmt.Fprintf(w, "    * %s\n      %s\n", c.GetName(), c.GetDesc())
		}
	}
	if len(notGroupedCommands) != 0 {
		if len(groups) != 0 {
			fmt.Fprintln(w, "  others")
		}
		for _, c := range notGroupedCommands {
			fmt.Fprintf(w, "    * %s\n      %s\n", c.GetName(), c.GetDesc())
		}
	}
}

func PrintUsage() {
	Write(os.Stdout)
}

func PrintVersionOrUsage(args []string) {
	var option Option
	var displayVersion bool
	option.Init("", flag.ContinueOnError)
	option.BoolOption(&displayVersion, "version", false, "display version info.")
	option.Usage = PrintUsage
	if err := option.Parse(args); err == nil {
		if displayVersion {
			version.PrintVersionInfo()
		} else {
			PrintUsage()
		}
	}
}
