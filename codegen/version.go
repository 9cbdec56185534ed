// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package codegen

import (
	"runtime/debug"
)

// Version contains the version string of the go-sproto library used for code generation.
//
// It is populated from the build information and written into the header of
// generated files. If the version cannot be determined (e.g. during
// development), it defaults to "unknown".
var Version = "unknown"

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Path == "github.com/pk910/go-sproto" && info.Main.Version != "" {
			Version = info.Main.Version
			return
		}
		for _, dep := range info.Deps {
			if dep.Path == "github.com/pk910/go-sproto" {
				Version = dep.Version
				break
			}
		}
	}
}
