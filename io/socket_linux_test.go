//go:build linux

package io

import (
	"testing"

	"github.com/vegaruntime/vega"
)

func TestSocketBindListenClose(t *testing.T) {
	s, err := NewInet4StreamSocket()
	if err != nil {
		t.Fatalf("NewInet4StreamSocket() err = %v", err)
	}
	addr := NewInet4Address(127, 0, 0, 1, 0)
	if err := s.Bind(addr); err != nil {
		t.Fatalf("Bind() err = %v", err)
	}
	if err := s.Listen(8); err != nil {
		t.Fatalf("Listen() err = %v", err)
	}
	if _, err := vega.Await(s.Close()); err != nil {
		t.Fatalf("Close() err = %v", err)
	}
}

func TestSocketIsValidReflectsClose(t *testing.T) {
	s, err := NewInet4StreamSocket()
	if err != nil {
		t.Fatalf("NewInet4StreamSocket() err = %v", err)
	}
	if !s.IsValid() {
		t.Fatalf("IsValid() = false before close, want true")
	}
	if _, err := vega.Await(s.Close()); err != nil {
		t.Fatalf("Close() err = %v", err)
	}
	if s.IsValid() {
		t.Fatalf("IsValid() = true after close, want false")
	}
}

func TestSocketOperationsAfterCloseRejectWithErrClosed(t *testing.T) {
	s, err := NewInet4StreamSocket()
	if err != nil {
		t.Fatalf("NewInet4StreamSocket() err = %v", err)
	}
	if _, err := vega.Await(s.Close()); err != nil {
		t.Fatalf("Close() err = %v", err)
	}
	if err := s.Bind(NewInet4Address(127, 0, 0, 1, 0)); err != ErrClosed {
		t.Fatalf("Bind() after close err = %v, want ErrClosed", err)
	}
}
