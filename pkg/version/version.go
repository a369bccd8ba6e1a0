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

package version

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X livelink/pkg/version.Revision=..."
var (
	Version   string = "0.3"
	Revision  string = ""
	BuildTime string = ""
)

func OnelineVersionString() string {
	if Revision == "" {
		return Version
	}
	return Version + "." + Revision
}

func WriteVersionInfo(w io.Writer) {
	binName := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "\nLivelink %s %s\n\n", binName, Version)

	rev := Revision
	if rev == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					rev = s.Value
				}
			}
		}
	}
	if rev != "" {
		fmt.Fprintf(w, "  Git Commit: %s\n", rev)
	}
	fmt.Fprintf(w, "  Go Version: %s\n  OS/Arch   : %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if BuildTime != "" {
		fmt.Fprintf(w, "  Built     : %s\n", BuildTime)
	}
	fmt.Fprintf(w, "\n")
}

func PrintVersionInfo() {
	WriteVersionInfo(os.Stdout)
}
