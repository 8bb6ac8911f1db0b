package io

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestInet4AddressString(t *testing.T) {
	a := NewInet4Address(127, 0, 0, 1, 8080)
	if got, want := a.String(), "127.0.0.1:8080"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestToSockAddrInNetworkByteOrder(t *testing.T) {
	a := NewInet4Address(10, 0, 0, 1, 0x0203)
	raw := a.toSockAddrIn()
	if raw.Family != unix.AF_INET {
		t.Fatalf("Family = %d, want AF_INET", raw.Family)
	}
	if raw.Addr != [4]byte{10, 0, 0, 1} {
		t.Fatalf("Addr = %v, want [10 0 0 1]", raw.Addr)
	}
	// network byte order: high byte first.
	if raw.Port != 0x0302 {
		t.Fatalf("Port = %#x, want %#x", raw.Port, 0x0302)
	}
}

func TestToSockaddr(t *testing.T) {
	a := NewInet4Address(192, 168, 1, 1, 443)
	sa, ok := a.toSockaddr().(*unix.SockaddrInet4)
	if !ok {
		t.Fatalf("toSockaddr() returned %T, want *unix.SockaddrInet4", a.toSockaddr())
	}
	if sa.Port != 443 || sa.Addr != [4]byte{192, 168, 1, 1} {
		t.Fatalf("toSockaddr() = %+v", sa)
	}
}
