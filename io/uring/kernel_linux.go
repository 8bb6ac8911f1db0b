//go:build linux

package uring

import (
	"bytes"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

type kernelVersion struct {
	major, minor int
	valid        bool
}

var (
	kernelOnce sync.Once
	kernel     kernelVersion
)

func getKernelVersion() kernelVersion {
	kernelOnce.Do(func() {
		uts := unix.Utsname{}
		if err := unix.Uname(&uts); err != nil {
			return
		}
		release := string(uts.Release[:bytes.IndexByte(uts.Release[:], 0)])
		var major, minor int
		if n, _ := fmt.Sscanf(release, "%d.%d", &major, &minor); n >= 2 {
			kernel = kernelVersion{major: major, minor: minor, valid: true}
		}
	})
	return kernel
}

// kernelAtLeast reports whether the running kernel is known to be at or
// above major.minor. An unparseable uname (valid == false) is treated as
// "unknown, assume new enough" rather than failing New outright.
func kernelAtLeast(major, minor int) bool {
	v := getKernelVersion()
	if !v.valid {
		return true
	}
	if v.major != major {
		return v.major > major
	}
	return v.minor >= minor
}
