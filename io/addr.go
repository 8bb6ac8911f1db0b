package io

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Inet4Address is an IPv4 address and port pair, kept in host byte order
// until toSockAddrIn renders it into the wire layout syscalls and io_uring
// prep calls expect.
type Inet4Address struct {
	Addr [4]byte
	Port uint16
}

// NewInet4Address builds an address from four octets and a port.
func NewInet4Address(a, b, c, d byte, port uint16) Inet4Address {
	return Inet4Address{Addr: [4]byte{a, b, c, d}, Port: port}
}

// String renders the address in dotted-decimal form, e.g. "127.0.0.1:80".
func (a Inet4Address) String() string {
	return fmt.Sprintf("%d.%d.%d.%d:%d", a.Addr[0], a.Addr[1], a.Addr[2], a.Addr[3], a.Port)
}

func htons(v uint16) uint16 {
	return v<<8&0xff00 | v>>8&0x00ff
}

// toSockAddrIn renders a into the raw sockaddr_in layout both plain
// socket syscalls (via toSockaddr) and io_uring connect/accept prep calls
// expect.
func (a Inet4Address) toSockAddrIn() unix.RawSockaddrInet4 {
	return unix.RawSockaddrInet4{
		Family: unix.AF_INET,
		Port:   htons(a.Port),
		Addr:   a.Addr,
	}
}

// toSockaddr renders a into the higher-level unix.Sockaddr plain
// syscalls such as Bind/Connect accept directly.
func (a Inet4Address) toSockaddr() unix.Sockaddr {
	return &unix.SockaddrInet4{Port: int(a.Port), Addr: a.Addr}
}
