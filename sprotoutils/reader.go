// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sprotoutils

// Reader is a random access cursor over one message buffer.
// Positions are relative to the start of the reader's view.
type Reader interface {
	GetPosition() int // return current position
	GetLength() int   // return total length of the view
	Remaining() int   // return bytes left after the current position
	Seek(pos int) error
	ReadUint8() (uint8, error)
	ReadUint16() (uint16, error)
	ReadUint32() (uint32, error)
	ReadBytes(n int) ([]byte, error) // zero-copy, valid as long as the underlying buffer
	SkipBytes(n int) error
	View(n int) (Reader, error) // zero-copy sub-reader over the next n bytes
	Offset() int                // absolute offset of the view in the shared buffer
	Bytes() []byte
}
