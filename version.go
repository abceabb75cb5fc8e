package aidchain

import (
	"fmt"
	"runtime/debug"
)

// Release version of the module. Suffix is empty for tagged releases.
const (
	Maj    = 0
	Min    = 1
	Fix    = 0
	Suffix = "-dev"
)

var version = fmt.Sprintf("v%d.%d.%d%s", Maj, Min, Fix, Suffix)

// GitCommit can be set at build time with
//
//	-ldflags "-X github.com/iov-one/aidchain.GitCommit=<hash>"
//
// When empty, the VCS revision recorded by the Go toolchain is used.
var GitCommit = ""

// Version returns the release version followed by the commit, if known.
func Version() string {
	if c := commit(); c != "" {
		return version + " " + c
	}
	return version
}

func commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 8 {
			return s.Value[:8]
		}
	}
	return ""
}
