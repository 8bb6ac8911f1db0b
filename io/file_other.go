//go:build !linux

package io

func openBackend(path string, mode Mode) (FileBackend, error) {
	return openStream(path, mode)
}
