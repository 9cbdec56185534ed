// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-sproto library.

package sprotoutils

type Writer interface {
	GetPosition() int
	GetBuffer() []byte
	WriteUint8(v uint8)
	WriteUint16(v uint16)
	WriteUint32(v uint32)
	WriteUint64(v uint64)
	WriteBytes(v []byte)
	WriteUint32At(pos int, v uint32) // back-patch a length prefix
}
