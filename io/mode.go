package io

// Mode is a bitset of the access flags a File can be opened with.
type Mode uint8

const (
	Read Mode = 1 << iota
	Write
	Truncate
)

// ReadWrite is shorthand for Read|Write.
const ReadWrite = Read | Write

func (m Mode) has(f Mode) bool { return m&f != 0 }
